package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

//go:embed config.example.toml
var exampleConf []byte

// ConfigFileName is the file looked up in the working directory and the XDG config home.
const ConfigFileName = "config.toml"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Library     LibraryConfig     `toml:"library"`
	Output      OutputConfig      `toml:"output"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// CatalogConfig contains remote catalog endpoints and request pacing.
type CatalogConfig struct {
	BaseURL   string  `toml:"base_url"`
	TokenURL  string  `toml:"token_url"`
	PageSize  int     `toml:"page_size"`
	RateLimit float64 `toml:"rate_limit"`
}

// LibraryConfig contains local library settings.
type LibraryConfig struct {
	Root       string           `toml:"root"`
	Workers    int              `toml:"workers"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
}

// ThresholdsConfig holds the similarity ratios used by the matcher.
type ThresholdsConfig struct {
	Folder       float64 `toml:"folder"`
	Title        float64 `toml:"title"`
	Artist       float64 `toml:"artist"`
	ArtistFolder float64 `toml:"artist_folder"`
	AlbumFolder  float64 `toml:"album_folder"`
}

// OutputConfig contains playlist and report output settings.
type OutputConfig struct {
	Dir          string `toml:"dir"`
	ReportFormat string `toml:"report_format"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// FindConfig resolves which configuration file to load.
//
// An explicit path wins when it exists, then ./config.toml, then $XDG_CONFIG_HOME/m3ux/config.toml.
// Returns an empty string when none exist.
func FindConfig(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
	}

	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}

	if path, err := xdg.SearchConfigFile("m3ux/" + ConfigFileName); err == nil {
		return path
	}

	return ""
}

// ApplyEnv overrides Spotify credentials from SPOTIPY_CLIENT_ID / SPOTIPY_CLIENT_SECRET
// (or the SPOTIFY_ prefixed variants) when they are set.
func (c *Config) ApplyEnv() {
	if v := firstEnv("SPOTIPY_CLIENT_ID", "SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := firstEnv("SPOTIPY_CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
}

// Validate checks the values the conversion depends on.
func (c *Config) Validate() error {
	t := c.Library.Thresholds
	for name, v := range map[string]float64{
		"folder":        t.Folder,
		"title":         t.Title,
		"artist":        t.Artist,
		"artist_folder": t.ArtistFolder,
		"album_folder":  t.AlbumFolder,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: library.thresholds.%s must be within [0,1], got %v", ErrInvalidConfig, name, v)
		}
	}

	if c.Library.Workers < 0 {
		return fmt.Errorf("%w: library.workers must not be negative", ErrInvalidConfig)
	}
	if c.Catalog.PageSize < 0 || c.Catalog.PageSize > 100 {
		return fmt.Errorf("%w: catalog.page_size must be within [1,100]", ErrInvalidConfig)
	}
	return nil
}

// HasSpotifyCredentials reports whether both client id and secret are set to non-placeholder values.
func (c *Config) HasSpotifyCredentials() bool {
	s := c.Credentials.Spotify
	return s.ClientID != "" && s.ClientSecret != "" &&
		s.ClientID != "your_spotify_client_id" && s.ClientSecret != "your_spotify_client_secret"
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
