package config_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"mediashelf/config"
	"mediashelf/services/media"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	mgr := config.NewManagerWithFs(afero.NewMemMapFs(), "/etc/mediashelf/settings.json")

	settings, err := mgr.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := config.DefaultSettings()
	if settings.Server.Port != want.Server.Port {
		t.Fatalf("expected default port %d, got %d", want.Server.Port, settings.Server.Port)
	}
	if settings.Search.Debounce() != media.DefaultDebounce {
		t.Fatalf("expected default debounce, got %v", settings.Search.Debounce())
	}
	if settings.Search.Policy() != media.ApplyIndependently {
		t.Fatalf("expected independent policy, got %v", settings.Search.Policy())
	}
	if err := settings.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	mgr := config.NewManagerWithFs(fs, "/data/config/settings.json")

	settings := config.DefaultSettings()
	settings.Server.Port = 9090
	settings.TMDB.Language = "fr-FR"
	settings.Search.ApplyPolicy = "together"
	settings.Search.DebounceMillis = 150
	if err := mgr.Save(settings); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err := afero.Exists(fs, "/data/config/settings.json")
	if err != nil || !exists {
		t.Fatalf("expected settings file to exist, err=%v", err)
	}

	loaded, err := mgr.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", loaded.Server.Port)
	}
	if loaded.TMDB.Language != "fr-FR" {
		t.Fatalf("expected language fr-FR, got %q", loaded.TMDB.Language)
	}
	if loaded.Search.Policy() != media.ApplyTogether {
		t.Fatalf("expected together policy, got %v", loaded.Search.Policy())
	}
	if loaded.Search.DebounceMillis != 150 {
		t.Fatalf("expected debounce 150, got %d", loaded.Search.DebounceMillis)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/settings.json", []byte(`{"server":{"port":8080}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := config.NewManagerWithFs(fs, "/settings.json").Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", loaded.Server.Port)
	}
	if loaded.TMDB.BaseURL != config.DefaultSettings().TMDB.BaseURL {
		t.Fatalf("expected default base url, got %q", loaded.TMDB.BaseURL)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MEDIASHELF_SERVER_PORT", "8181")
	t.Setenv("TMDB_API_KEY", "from-env")

	loaded, err := config.NewManagerWithFs(afero.NewMemMapFs(), "/settings.json").Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server.Port != 8181 {
		t.Fatalf("expected port 8181 from env, got %d", loaded.Server.Port)
	}
	if loaded.TMDB.APIKey != "from-env" {
		t.Fatalf("expected api key from env, got %q", loaded.TMDB.APIKey)
	}
}

func TestPrefixedAPIKeyWinsOverBareKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "bare")
	t.Setenv("MEDIASHELF_TMDB_API_KEY", "prefixed")

	loaded, err := config.NewManagerWithFs(afero.NewMemMapFs(), "/settings.json").Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TMDB.APIKey != "prefixed" {
		t.Fatalf("expected prefixed api key, got %q", loaded.TMDB.APIKey)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/settings.json", []byte(`{"server":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.NewManagerWithFs(fs, "/settings.json").Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Settings) {}},
		{name: "port", mutate: func(s *config.Settings) { s.Server.Port = 0 }, wantErr: "server.port"},
		{name: "language", mutate: func(s *config.Settings) { s.TMDB.Language = "??" }, wantErr: "tmdb.language"},
		{name: "policy", mutate: func(s *config.Settings) { s.Search.ApplyPolicy = "sometimes" }, wantErr: "search.applyPolicy"},
		{name: "debounce", mutate: func(s *config.Settings) { s.Search.DebounceMillis = -1 }, wantErr: "search.debounceMillis"},
		{name: "database", mutate: func(s *config.Settings) { s.Storage.DatabasePath = " " }, wantErr: "storage.databasePath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := config.DefaultSettings()
			tt.mutate(&settings)
			err := settings.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
