// Package config provides configuration loading with layered
// precedence: built-in defaults, then an optional YAML config file,
// then SPORTSLENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "SPORTSLENS"

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		BaseURL:            "https://v1.american-football.api-sports.io",
		MinRequestInterval: time.Second,
		Cache: CacheConfig{
			File: "cache.json",
			TTL:  time.Hour,
		},
		Logging: LoggingConfig{Level: "info"},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads configuration from the optional file at cfgFile plus
// environment overrides. An empty cfgFile means environment and
// defaults only; a missing explicit file is an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the invariants required before the pipeline can be
// constructed.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("api_key is required (set SPORTSLENS_API_KEY or api_key in the config file)")
	}
	if c.MinRequestInterval < 0 {
		return errors.New("min_request_interval must not be negative")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := Defaults()

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("min_request_interval", defaults.MinRequestInterval)
	v.SetDefault("cache.file", defaults.Cache.File)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}
