// Package config loads server configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	DataDir     string `yaml:"data_dir"`
	Country     string `yaml:"country"`
	Language    string `yaml:"language"`
	GeminiModel string `yaml:"gemini_model"`

	// RequestTimeoutSeconds bounds each outbound bibliographic API call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

func Default() *Config {
	return &Config{
		Port:                  "8888",
		DataDir:               "data",
		Country:               "JP",
		Language:              "ja",
		GeminiModel:           "gemini-1.5-flash",
		RequestTimeoutSeconds: 5,
	}
}

// Load reads the YAML file at path when it exists, then applies env
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("BOOKLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	return cfg, nil
}

func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
