// Package config handles the citelens data directory and configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/citelens/citelens/internal/paper"
)

const (
	// DataDirName is the default data directory under the user's home.
	DataDirName = ".citelens"
	// ConfigFile is the config file name inside the data directory.
	ConfigFile = "config.yml"
	// DBFile is the SQLite database file name inside the data directory.
	DBFile = "citations.db"
)

// Config is the citelens configuration stored in $CITELENS_HOME/config.yml.
type Config struct {
	User      UserConfig                `yaml:"user"`
	Platforms map[string]PlatformConfig `yaml:"platforms"`
}

// UserConfig identifies the researcher being tracked.
type UserConfig struct {
	Name  string `yaml:"name"`
	ORCID string `yaml:"orcid,omitempty"`
}

// PlatformConfig configures a single platform integration.
type PlatformConfig struct {
	Enabled      bool   `yaml:"enabled"`
	APIKey       string `yaml:"api_key,omitempty"`
	AuthorID     string `yaml:"author_id,omitempty"`     // Platform-specific author identifier
	ClientID     string `yaml:"client_id,omitempty"`     // ORCID OAuth
	ClientSecret string `yaml:"client_secret,omitempty"` // ORCID OAuth
}

// Default returns a config with all platforms present. Google Scholar is
// disabled out of the box: it has no API and scraping breaks often.
func Default() *Config {
	return &Config{
		Platforms: map[string]PlatformConfig{
			string(paper.PlatformORCID):           {Enabled: true},
			string(paper.PlatformArXiv):           {Enabled: true},
			string(paper.PlatformSemanticScholar): {Enabled: true},
			string(paper.PlatformGoogleScholar):   {Enabled: false},
		},
	}
}

// DataDir returns the citelens data directory.
// Respects CITELENS_HOME, defaults to ~/.citelens.
func DataDir() string {
	if dir := os.Getenv("CITELENS_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DataDirName
	}
	return filepath.Join(home, DataDirName)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataDir(), ConfigFile)
}

// DBPath returns the path to the SQLite database.
func DBPath() string {
	return filepath.Join(DataDir(), DBFile)
}

// IsInitialized reports whether the data directory has been set up.
func IsInitialized() bool {
	info, err := os.Stat(DataDir())
	return err == nil && info.IsDir()
}

// Load reads the configuration file. A missing file yields the default
// config, not an error.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Guarantee every known platform has an entry so lookups never miss.
	for _, p := range paper.AllPlatforms {
		if _, ok := cfg.Platforms[string(p)]; !ok {
			cfg.Platforms[string(p)] = PlatformConfig{}
		}
	}

	return cfg, nil
}

// Save writes the configuration file, creating the data directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(DataDir(), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Platform returns the config for a platform, zero-valued if absent.
func (c *Config) Platform(p paper.Platform) PlatformConfig {
	return c.Platforms[string(p)]
}

// SetPlatform stores the config for a platform.
func (c *Config) SetPlatform(p paper.Platform, pc PlatformConfig) {
	if c.Platforms == nil {
		c.Platforms = make(map[string]PlatformConfig)
	}
	c.Platforms[string(p)] = pc
}

// EnabledPlatforms returns the enabled platforms in fetch order.
func (c *Config) EnabledPlatforms() []paper.Platform {
	var enabled []paper.Platform
	for _, p := range paper.AllPlatforms {
		if c.Platform(p).Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled
}
