package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteStarterFile writes a starter config with the built-in defaults
// to path. It refuses to overwrite an existing file.
func WriteStarterFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	defaults := Defaults()
	starter := map[string]any{
		"api_key":              "",
		"base_url":             defaults.BaseURL,
		"min_request_interval": defaults.MinRequestInterval.String(),
		"cache": map[string]any{
			"file": defaults.Cache.File,
			"ttl":  defaults.Cache.TTL.String(),
		},
		"logging": map[string]any{
			"level": defaults.Logging.Level,
		},
		"server": map[string]any{
			"host": defaults.Server.Host,
			"port": defaults.Server.Port,
		},
	}

	data, err := yaml.Marshal(starter)
	if err != nil {
		return fmt.Errorf("encode starter config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write starter config: %w", err)
	}
	return nil
}
