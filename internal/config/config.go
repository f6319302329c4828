// Package config loads the monitor's YAML configuration file: the list of
// watched sources plus fetch, state, and scheduling settings. Webhook URLs
// are deliberately not part of the file; they come from the environment so
// secrets stay out of checked-in configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is one watched listing.
type Source struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// FetchSettings tunes the conditional fetcher.
type FetchSettings struct {
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`
	PolitenessDelay time.Duration `yaml:"politeness_delay"`
}

// StateSettings selects and configures the state store backend.
type StateSettings struct {
	// Backend is "file" (default) or "sqlite".
	Backend string `yaml:"backend"`

	// Dir holds per-source JSON files for the file backend.
	Dir string `yaml:"dir"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`
}

// WatchSettings tunes the detection pass.
type WatchSettings struct {
	// Parallelism bounds concurrent source checks; 0 or 1 is sequential.
	Parallelism int `yaml:"parallelism"`
}

// Config is the root of the YAML configuration file.
type Config struct {
	Sources []Source      `yaml:"sources"`
	Fetch   FetchSettings `yaml:"fetch"`
	State   StateSettings `yaml:"state"`
	Watch   WatchSettings `yaml:"watch"`
}

const (
	defaultStateBackend = "file"
	defaultStateDir     = "state"
)

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.State.Backend == "" {
		c.State.Backend = defaultStateBackend
	}
	if c.State.Dir == "" {
		c.State.Dir = defaultStateDir
	}
}

func (c *Config) validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	for i, s := range c.Sources {
		if s.URL == "" {
			return fmt.Errorf("source %d: url is required", i)
		}
	}
	switch c.State.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}
	if c.State.Backend == "sqlite" && c.State.SQLitePath == "" {
		return fmt.Errorf("state backend sqlite requires sqlite_path")
	}
	if c.Watch.Parallelism < 0 {
		return fmt.Errorf("watch parallelism cannot be negative")
	}
	return nil
}

// EnabledSourceURLs returns the URLs of enabled sources in file order.
func (c *Config) EnabledSourceURLs() []string {
	urls := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Enabled {
			urls = append(urls, s.URL)
		}
	}
	return urls
}
