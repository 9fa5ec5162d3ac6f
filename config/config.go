// Package config provides configuration loading and management for the
// semrecipe CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semrecipe/units"
)

// Config represents the complete semrecipe configuration
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Extract ExtractConfig `yaml:"extract"`
	Display DisplayConfig `yaml:"display"`
	NATS    NATSConfig    `yaml:"nats"`
}

// FetchConfig configures page fetching
type FetchConfig struct {
	// Timeout bounds a single fetch including redirects
	Timeout time.Duration `yaml:"timeout"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
	// MaxContentSize is the largest body read, in bytes
	MaxContentSize int64 `yaml:"max_content_size"`
	// MaxRedirects is the number of redirects followed
	MaxRedirects int `yaml:"max_redirects"`
}

// ExtractConfig configures recipe extraction
type ExtractConfig struct {
	// Concurrency is the number of pages extracted at once
	Concurrency int `yaml:"concurrency"`
	// NormalizeMarkup converts HTML inside text values to Markdown
	NormalizeMarkup bool `yaml:"normalize_markup"`
}

// DisplayConfig configures how scaled amounts are shown
type DisplayConfig struct {
	// Length is "long" (1 cup) or "abbrev" (1 C)
	Length string `yaml:"length"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = no draft storage or publishing)
	URL string `yaml:"url"`
	// DraftBucket is the KV bucket for imported drafts
	DraftBucket string `yaml:"draft_bucket"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:        30 * time.Second,
			UserAgent:      "semrecipe/1.0 (+https://github.com/c360studio/semrecipe)",
			MaxContentSize: 10 * 1024 * 1024,
			MaxRedirects:   5,
		},
		Extract: ExtractConfig{
			Concurrency: 4,
		},
		Display: DisplayConfig{
			Length: units.Long.String(),
		},
		NATS: NATSConfig{
			DraftBucket: "RECIPE_DRAFTS",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxContentSize <= 0 {
		return fmt.Errorf("fetch.max_content_size must be positive")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must not be negative")
	}
	if c.Extract.Concurrency < 1 {
		return fmt.Errorf("extract.concurrency must be at least 1")
	}
	if _, ok := units.ParseLength(c.Display.Length); !ok {
		return fmt.Errorf("display.length must be long or abbrev, got %q", c.Display.Length)
	}
	return nil
}

// DisplayLength returns the configured render length.
func (c *Config) DisplayLength() units.Length {
	l, _ := units.ParseLength(c.Display.Length)
	return l
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	layer, err := loadLayer(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// loadLayer reads a YAML file into a zero Config so that only the keys the
// file sets are non-zero when merged.
func loadLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return layer, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Fetch
	if other.Fetch.Timeout != 0 {
		c.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.UserAgent != "" {
		c.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.MaxContentSize != 0 {
		c.Fetch.MaxContentSize = other.Fetch.MaxContentSize
	}
	if other.Fetch.MaxRedirects != 0 {
		c.Fetch.MaxRedirects = other.Fetch.MaxRedirects
	}

	// Extract
	if other.Extract.Concurrency != 0 {
		c.Extract.Concurrency = other.Extract.Concurrency
	}
	if other.Extract.NormalizeMarkup {
		c.Extract.NormalizeMarkup = true
	}

	// Display
	if other.Display.Length != "" {
		c.Display.Length = other.Display.Length
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.DraftBucket != "" {
		c.NATS.DraftBucket = other.NATS.DraftBucket
	}
}
