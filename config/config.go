package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
	Layout        Layout              `yaml:"layout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// ObservabilityConfig holds configuration for optional run outputs.
type ObservabilityConfig struct {
	MetricsTextfile string `yaml:"metrics_textfile"` // empty disables
	ChartPath       string `yaml:"chart_path"`       // empty disables
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Layout: DefaultLayout(),
	}
}

// LoadConfig loads the configuration from a YAML file. A missing file falls
// back to the defaults. Environment variables (optionally from a .env file in
// the working directory) override file values. The layout is validated
// before returning.
func LoadConfig(filename string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("METRICS_TEXTFILE"); v != "" {
		cfg.Observability.MetricsTextfile = v
	}
	if v := os.Getenv("CHART_PATH"); v != "" {
		cfg.Observability.ChartPath = v
	}

	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
