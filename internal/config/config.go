package config

import "time"

// Config is the complete application configuration.
type Config struct {
	// APIKey authenticates requests against the remote service. Required
	// for any command that reaches the network.
	APIKey string `mapstructure:"api_key"`

	// BaseURL is the remote service root.
	BaseURL string `mapstructure:"base_url"`

	// MinRequestInterval is the floor between consecutive outbound
	// calls. Mutable at runtime through the limiter.
	MinRequestInterval time.Duration `mapstructure:"min_request_interval"`

	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	// File is the path of the JSON backing store.
	File string `mapstructure:"file"`

	// TTL is the expiration window for cached entries.
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// ServerConfig contains the serve-mode HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
