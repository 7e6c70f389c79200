package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Site     SiteConfig     `toml:"site"`
	Fetch    FetchConfig    `toml:"fetch"`
	Database DatabaseConfig `toml:"database"`
}

// SiteConfig describes the upstream site layout.
type SiteConfig struct {
	BaseURL       string `toml:"base_url"`
	DirectoryPath string `toml:"directory_path"`
	ChannelPath   string `toml:"channel_path"`
	Delimiter     string `toml:"delimiter"`
}

// DirectoryURL returns the absolute URL of the channel directory page.
func (s SiteConfig) DirectoryURL() string {
	return s.BaseURL + s.DirectoryPath
}

// ChannelURL returns the absolute URL of a channel's now-playing page.
func (s SiteConfig) ChannelURL(identifier string) string {
	return s.BaseURL + s.ChannelPath + "?channel=" + url.QueryEscape(identifier)
}

// FetchConfig contains network settings for page retrieval.
type FetchConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxInFlight       int     `toml:"max_in_flight"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the configured fetch timeout as a [time.Duration].
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
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
