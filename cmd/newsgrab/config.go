package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds file-based settings. Every field has a working default so the
// config file is optional; NEWSGRAB_DB and OPENROUTER_API_KEY environment
// variables override the file.
type Config struct {
	// APIKey is the OpenRouter API key.
	APIKey string `yaml:"api_key"`

	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`

	// Models overrides the free-model fallback list.
	Models []string `yaml:"models"`

	// Reducer selects the content reduction strategy: "goquery" (default),
	// "trafilatura", or "candidates".
	Reducer string `yaml:"reducer"`

	// RateLimitRPS is the per-domain request rate for scraping.
	RateLimitRPS float64 `yaml:"rate_limit_rps"`

	// Concurrency bounds how many URLs are scraped at once.
	Concurrency int `yaml:"concurrency"`

	// Headless controls whether the browser runs without a window.
	Headless *bool `yaml:"headless"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// LoadConfig reads the YAML config at path and applies environment overrides.
// A missing file is not an error: defaults plus environment apply.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Reducer:      "goquery",
		RateLimitRPS: 1.0,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if db := os.Getenv("NEWSGRAB_DB"); db != "" {
		cfg.DBPath = db
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}

	return cfg, nil
}

// defaultConfigPath is where LoadConfig looks when no --config flag is given.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsgrab.yaml"
	}
	return filepath.Join(home, ".newsgrab", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsgrab.db"
	}
	dir := filepath.Join(home, ".newsgrab")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "newsgrab.db")
}
