package config

import (
	"fmt"
	"time"
)

// Config represents the persistent pairwise configuration stored as
// config.toml in the .pairwise/ directory. The TOML layout uses sections for
// logical grouping. The upstream API key is deliberately absent: it is only
// ever read from the environment.
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Models   ModelsConfig   `toml:"models"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// UpstreamConfig holds settings for the chat-completion service.
type UpstreamConfig struct {
	BaseURL string `toml:"base_url,omitempty"`

	// Timeout is a Go duration string ("5m", "90s"). "0" disables it.
	Timeout string `toml:"timeout,omitempty"`
}

// ModelsConfig names the model used for each tier.
type ModelsConfig struct {
	Weak   string `toml:"weak,omitempty"`
	Strong string `toml:"strong,omitempty"`
}

// LogConfig holds conversation log settings.
type LogConfig struct {
	CSVPath string `toml:"csv_path,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"upstream.base_url": {
		get: func(c *Config) string { return c.Upstream.BaseURL },
		set: func(c *Config, v string) error { c.Upstream.BaseURL = v; return nil },
	},
	"upstream.timeout": {
		get: func(c *Config) string { return c.Upstream.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for upstream.timeout: %w", err)
			}
			c.Upstream.Timeout = v
			return nil
		},
	},
	"models.weak": {
		get: func(c *Config) string { return c.Models.Weak },
		set: func(c *Config, v string) error { c.Models.Weak = v; return nil },
	},
	"models.strong": {
		get: func(c *Config) string { return c.Models.Strong },
		set: func(c *Config, v string) error { c.Models.Strong = v; return nil },
	},
	"log.csv_path": {
		get: func(c *Config) string { return c.Log.CSVPath },
		set: func(c *Config, v string) error { c.Log.CSVPath = v; return nil },
	},
}
