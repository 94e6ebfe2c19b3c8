package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./m3ux.db" {
			t.Errorf("expected database path ./m3ux.db, got %s", config.Database.Path)
		}

		if config.Catalog.PageSize != 100 {
			t.Errorf("expected catalog page size 100, got %d", config.Catalog.PageSize)
		}

		th := config.Library.Thresholds
		if th.Folder != 0.8 || th.Title != 0.8 || th.Artist != 0.8 || th.ArtistFolder != 0.6 || th.AlbumFolder != 0.1 {
			t.Errorf("unexpected default thresholds: %+v", th)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.HasSpotifyCredentials() {
			t.Error("placeholder credentials should not count as configured")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[library]
root = "/music"
workers = 4

[library.thresholds]
title = 0.9
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Library.Root != "/music" || config.Library.Workers != 4 {
			t.Errorf("unexpected library config: %+v", config.Library)
		}
		if config.Library.Thresholds.Title != 0.9 {
			t.Errorf("expected title threshold 0.9, got %v", config.Library.Thresholds.Title)
		}
		if config.Library.Thresholds.ArtistFolder != 0.6 {
			t.Errorf("expected default artist folder threshold 0.6, got %v", config.Library.Thresholds.ArtistFolder)
		}
		if config.Catalog.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected default base url, got %s", config.Catalog.BaseURL)
		}
		if !config.HasSpotifyCredentials() {
			t.Error("expected credentials to be configured")
		}
	})

	t.Run("LoadConfig rejects malformed toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[library\nroot = 1"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Output.Dir = "/playlists"
		config.Library.Thresholds.Folder = 0.75

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Output.Dir != "/playlists" || loaded.Library.Thresholds.Folder != 0.75 {
			t.Errorf("saved values not preserved: %+v", loaded)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIPY_CLIENT_ID", "env-id")
		t.Setenv("SPOTIPY_CLIENT_SECRET", "env-secret")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env-id" {
			t.Errorf("expected env-id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env-secret" {
			t.Errorf("expected env-secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			mutate  func(*Config)
			wantErr bool
		}{
			{name: "defaults", mutate: func(*Config) {}, wantErr: false},
			{name: "threshold above one", mutate: func(c *Config) { c.Library.Thresholds.Title = 1.2 }, wantErr: true},
			{name: "negative threshold", mutate: func(c *Config) { c.Library.Thresholds.AlbumFolder = -0.1 }, wantErr: true},
			{name: "negative workers", mutate: func(c *Config) { c.Library.Workers = -1 }, wantErr: true},
			{name: "page size too large", mutate: func(c *Config) { c.Catalog.PageSize = 101 }, wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				err := config.Validate()
				if (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("FindConfig prefers explicit path", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.toml")
		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if got := FindConfig(configPath); got != configPath {
			t.Errorf("FindConfig() = %s, want %s", got, configPath)
		}
	})
}
