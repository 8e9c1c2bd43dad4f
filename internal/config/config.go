// Package config handles loading and saving configuration for Bananas.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bananas-dict/bananas/internal/lexicon"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.yaml"

// Config holds all configuration for Bananas.
type Config struct {
	Dataset  Dataset           `yaml:"dataset"`
	Editions []lexicon.Edition `yaml:"editions"`
	Log      Log               `yaml:"log"`
	Server   Server            `yaml:"server"`
	Start    Start             `yaml:"start"`
}

// Dataset locates the word dataset.
type Dataset struct {
	Path string `yaml:"path"` // SQLite file built by "bananas build"
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Server holds settings for the HTTP API.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// Start holds settings for the interactive view.
type Start struct {
	Length int `yaml:"length"` // headword length of the initial random word
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Dataset: Dataset{Path: "data/banana-dict.sqlite"},
		Editions: []lexicon.Edition{
			{
				ID:          "nwl2020",
				Column:      "in_nwl_20",
				Name:        "NASPA Word List (2020)",
				Description: "The official word reference for SCRABBLE played in the United States and Canada",
			},
			{
				ID:     "nwl2023",
				Column: "in_nwl_23",
				Name:   "NASPA Word List (2023)",
			},
		},
		Log:    Log{Level: "info", Format: "text"},
		Server: Server{Addr: ":8080", AllowedOrigins: []string{"*"}},
		Start:  Start{Length: 2},
	}
}

// Load reads configuration from a YAML file. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return cfg, nil
}

// LoadDir loads config.yaml from dir, or returns the defaults if the file
// does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes configuration to a YAML file.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the store cannot use.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Dataset.Path) == "" {
		errs = append(errs, fmt.Errorf("dataset.path is empty"))
	}

	if len(c.Editions) == 0 {
		errs = append(errs, fmt.Errorf("editions: at least one edition is required"))
	}
	ids := make(map[string]bool)
	cols := make(map[string]bool)
	for i, e := range c.Editions {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("editions[%d]: %w", i, err))
			continue
		}
		if ids[e.ID] {
			errs = append(errs, fmt.Errorf("editions[%d]: duplicate id %q", i, e.ID))
		}
		if cols[e.Column] {
			errs = append(errs, fmt.Errorf("editions[%d]: duplicate column %q", i, e.Column))
		}
		ids[e.ID] = true
		cols[e.Column] = true
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	if c.Start.Length < 1 {
		errs = append(errs, fmt.Errorf("start.length must be positive"))
	}

	return errors.Join(errs...)
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bananas"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}
