// Package config loads the TOML configuration of the MCP server. Every
// field is optional: the zero config produces a working stdio server that
// takes its API key from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type APIConfig struct {
	Key            string `toml:"key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

type SearchConfig struct {
	TopK int    `toml:"top_k"`
	Mode string `toml:"mode"`
}

type ServerConfig struct {
	Transport string `toml:"transport"`
	Addr      string `toml:"addr"`
	LogLevel  string `toml:"log_level"`
}

type Config struct {
	API    APIConfig    `toml:"api"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
}

func defaults() *Config {
	return &Config{
		API:    APIConfig{TimeoutSeconds: 30, MaxRetries: 3},
		Search: SearchConfig{TopK: 5, Mode: "balanced"},
		Server: ServerConfig{Transport: "stdio", Addr: ":8311", LogLevel: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// the path was never set explicitly; callers pass explicit=true for a
// path that came from a flag.
func Load(path string, explicit bool) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Server.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("invalid transport %q: use stdio or sse", c.Server.Transport)
	}
	switch c.Search.Mode {
	case "fast", "balanced", "precise":
	default:
		return fmt.Errorf("invalid search mode %q: use fast, balanced or precise", c.Search.Mode)
	}
	if c.Search.TopK < 1 || c.Search.TopK > 50 {
		return fmt.Errorf("top_k must be between 1 and 50, got %d", c.Search.TopK)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
