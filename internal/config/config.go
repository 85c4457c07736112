// Package config loads the flowd server configuration from a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the flowd server configuration.
type Config struct {
	Addr string `yaml:"addr"`
	Log  Log    `yaml:"log"`
}

// Log configures the application logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Environment variables read by Load.
const (
	EnvAddr      = "FLOW_ADDR"
	EnvLogLevel  = "FLOW_LOG_LEVEL"
	EnvLogFormat = "FLOW_LOG_FORMAT"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":3000",
		Log:  Log{Level: "info", Format: "text"},
	}
}

// Load builds a Config from the defaults, then the YAML file at path (if
// path is not empty), then the environment. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config: %s does not exist", path)
			}
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}

	return cfg, cfg.Validate()
}

// Validate rejects unusable values.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}
