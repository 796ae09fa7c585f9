package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"mediashelf/internal/logging"
	"mediashelf/services/media"
)

// Settings is the full application configuration.
type Settings struct {
	Server  ServerSettings  `json:"server" mapstructure:"server"`
	TMDB    TMDBSettings    `json:"tmdb" mapstructure:"tmdb"`
	Search  SearchSettings  `json:"search" mapstructure:"search"`
	Storage StorageSettings `json:"storage" mapstructure:"storage"`
	Log     LogSettings     `json:"log" mapstructure:"log"`
}

// ServerSettings configures the HTTP API. An empty APIKey leaves it open.
type ServerSettings struct {
	Host           string   `json:"host" mapstructure:"host"`
	Port           int      `json:"port" mapstructure:"port"`
	AllowedOrigins []string `json:"allowedOrigins" mapstructure:"allowedorigins"`
	APIKey         string   `json:"apiKey" mapstructure:"apikey"`
}

// TMDBSettings configures the upstream catalog client. APIKey is the v4 read
// access token sent as a bearer token.
type TMDBSettings struct {
	APIKey         string `json:"apiKey" mapstructure:"apikey"`
	BaseURL        string `json:"baseUrl" mapstructure:"baseurl"`
	Language       string `json:"language" mapstructure:"language"`
	PosterSize     string `json:"posterSize" mapstructure:"postersize"`
	TimeoutSeconds int    `json:"timeoutSeconds" mapstructure:"timeoutseconds"`
	RetryAttempts  int    `json:"retryAttempts" mapstructure:"retryattempts"`
}

type SearchSettings struct {
	DebounceMillis int    `json:"debounceMillis" mapstructure:"debouncemillis"`
	ApplyPolicy    string `json:"applyPolicy" mapstructure:"applypolicy"`
}

type StorageSettings struct {
	DatabasePath string `json:"databasePath" mapstructure:"databasepath"`
}

// LogSettings controls rotation of the optional log file. An empty File logs
// to stderr only.
type LogSettings struct {
	File       string `json:"file" mapstructure:"file"`
	MaxSizeMB  int    `json:"maxSizeMb" mapstructure:"maxsizemb"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxbackups"`
	MaxAgeDays int    `json:"maxAgeDays" mapstructure:"maxagedays"`
	Verbose    bool   `json:"verbose" mapstructure:"verbose"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host:           "0.0.0.0",
			Port:           7777,
			AllowedOrigins: []string{"*"},
		},
		TMDB: TMDBSettings{
			BaseURL:        "https://api.themoviedb.org/3",
			Language:       "en-US",
			PosterSize:     "w500",
			TimeoutSeconds: 15,
			RetryAttempts:  3,
		},
		Search: SearchSettings{
			DebounceMillis: int(media.DefaultDebounce / time.Millisecond),
			ApplyPolicy:    media.ApplyIndependently.String(),
		},
		Storage: StorageSettings{
			DatabasePath: "cache/mediashelf.db",
		},
		Log: LogSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Addr returns host:port for the HTTP listener.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s TMDBSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

func (s LogSettings) Options() logging.Options {
	return logging.Options{
		File:       s.File,
		MaxSizeMB:  s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAgeDays: s.MaxAgeDays,
		Verbose:    s.Verbose,
	}
}

// Policy parses ApplyPolicy, falling back to ApplyIndependently.
func (s SearchSettings) Policy() media.ApplyPolicy {
	p, err := media.ParseApplyPolicy(s.ApplyPolicy)
	if err != nil {
		return media.ApplyIndependently
	}
	return p
}

// Validate reports every invalid field at once.
func (s Settings) Validate() error {
	var errs []error

	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	if lang := strings.TrimSpace(s.TMDB.Language); lang != "" {
		if _, err := language.Parse(lang); err != nil {
			errs = append(errs, fmt.Errorf("tmdb.language %q: %w", lang, err))
		}
	}
	if s.TMDB.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("tmdb.timeoutSeconds must be positive"))
	}
	if s.TMDB.RetryAttempts <= 0 {
		errs = append(errs, fmt.Errorf("tmdb.retryAttempts must be positive"))
	}
	if s.Search.DebounceMillis < 0 {
		errs = append(errs, fmt.Errorf("search.debounceMillis must not be negative"))
	}
	if _, err := media.ParseApplyPolicy(s.Search.ApplyPolicy); err != nil {
		errs = append(errs, fmt.Errorf("search.applyPolicy: %w", err))
	}
	if strings.TrimSpace(s.Storage.DatabasePath) == "" {
		errs = append(errs, fmt.Errorf("storage.databasePath is required"))
	}

	return errors.Join(errs...)
}
