// Package app wires the core components together: configuration, the
// pooled HTTP client, the State Store, and the Supervisor.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/factordynamics/paracas/internal/fetch"
	"github.com/factordynamics/paracas/internal/state"
)

// Config holds every setting the core needs, loaded from PARACAS_-prefixed
// environment variables and, optionally, a YAML file passed via --config.
type Config struct {
	BaseURL           string        `mapstructure:"base_url"`
	StateRoot         string        `mapstructure:"state_root"`
	LogLevel          string        `mapstructure:"log_level"`
	StreamConcurrency int           `mapstructure:"stream_concurrency"` // N
	OuterLimit        int           `mapstructure:"outer_limit"`        // M
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	BaseDelay         time.Duration `mapstructure:"base_delay"`
}

// LoadConfig reads configuration from the environment (PARACAS_* variables)
// and, if configPath is non-empty, a YAML file, env taking precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PARACAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", fetch.BaseURL)
	v.SetDefault("state_root", state.DefaultRoot())
	v.SetDefault("log_level", "info")
	v.SetDefault("stream_concurrency", 8)
	v.SetDefault("outer_limit", 4)
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("max_retries", 3)
	v.SetDefault("base_delay", 1*time.Second)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// ClientConfig derives a fetch.ClientConfig from the loaded Config.
func (c *Config) ClientConfig() fetch.ClientConfig {
	return fetch.ClientConfig{
		Concurrency: c.StreamConcurrency,
		ReadTimeout: c.ReadTimeout,
		MaxRetries:  c.MaxRetries,
		BaseDelay:   c.BaseDelay,
	}
}
