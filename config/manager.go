package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MEDIASHELF_SERVER_PORT.
const EnvPrefix = "MEDIASHELF"

// Manager reads and writes the JSON settings file.
type Manager struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs lets tests substitute an in-memory filesystem.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

func (m *Manager) Path() string {
	return m.path
}

// Load returns the settings file merged over DefaultSettings, with
// environment overrides applied last. A missing file is not an error.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.newViper()
	if err != nil {
		return Settings{}, err
	}

	exists, err := afero.Exists(m.fs, m.path)
	if err != nil {
		return Settings{}, fmt.Errorf("stat config: %w", err)
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return settings, nil
}

// Save writes settings as indented JSON, creating parent directories.
func (m *Manager) Save(settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(m.path); dir != "" && dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := afero.WriteFile(m.fs, m.path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (m *Manager) newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(m.fs)
	v.SetConfigFile(m.path)
	v.SetConfigType("json")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare TMDB_API_KEY is what the upstream docs tell users to export.
	if err := v.BindEnv("tmdb.apikey", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind tmdb api key env: %w", err)
	}

	setDefaults(v, DefaultSettings())
	return v, nil
}

func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowedorigins", d.Server.AllowedOrigins)
	v.SetDefault("server.apikey", d.Server.APIKey)

	v.SetDefault("tmdb.apikey", d.TMDB.APIKey)
	v.SetDefault("tmdb.baseurl", d.TMDB.BaseURL)
	v.SetDefault("tmdb.language", d.TMDB.Language)
	v.SetDefault("tmdb.postersize", d.TMDB.PosterSize)
	v.SetDefault("tmdb.timeoutseconds", d.TMDB.TimeoutSeconds)
	v.SetDefault("tmdb.retryattempts", d.TMDB.RetryAttempts)

	v.SetDefault("search.debouncemillis", d.Search.DebounceMillis)
	v.SetDefault("search.applypolicy", d.Search.ApplyPolicy)

	v.SetDefault("storage.databasepath", d.Storage.DatabasePath)

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.maxsizemb", d.Log.MaxSizeMB)
	v.SetDefault("log.maxbackups", d.Log.MaxBackups)
	v.SetDefault("log.maxagedays", d.Log.MaxAgeDays)
	v.SetDefault("log.verbose", d.Log.Verbose)
}
