// Package config provides Viper-based configuration management for accountctl
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete accountctl configuration
type Config struct {
	Account AccountConfig `mapstructure:"account"`
	Session SessionConfig `mapstructure:"session"`
	Events  EventsConfig  `mapstructure:"events"`
	Prompt  PromptConfig  `mapstructure:"prompt"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// AccountConfig points at the account service (Ory Kratos public API)
type AccountConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig contains local session storage settings
type SessionConfig struct {
	// File overrides the session file location. Empty means the XDG default.
	File string `mapstructure:"file"`
}

// EventsConfig controls analytics notifications
type EventsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Endpoint     string        `mapstructure:"endpoint"`
	BufferSize   int           `mapstructure:"buffer_size"`
	FlushTimeout time.Duration `mapstructure:"flush_timeout"`
	// RateLimit caps deliveries per second. Zero means unlimited.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// PromptConfig contains interactive prompt settings
type PromptConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration from file and environment variables.
// A non-empty accountURL takes precedence over every other source.
func Load(cfgFile, accountURL string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Search paths for .accountctl.yaml
		v.SetConfigName(".accountctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/accountctl")
	}

	// ACCOUNTCTL_ACCOUNT_URL -> account.url
	v.SetEnvPrefix("ACCOUNTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if accountURL != "" {
		v.Set("account.url", accountURL)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values. Every key needs a default so
// AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("account.url", "http://127.0.0.1:4433")
	v.SetDefault("account.timeout", 30*time.Second)

	v.SetDefault("session.file", "")

	v.SetDefault("events.enabled", true)
	v.SetDefault("events.endpoint", "")
	v.SetDefault("events.buffer_size", 16)
	v.SetDefault("events.flush_timeout", 2*time.Second)
	v.SetDefault("events.rate_limit", 5.0)

	v.SetDefault("prompt.max_attempts", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if err := validateURL("account.url", cfg.Account.URL); err != nil {
		return err
	}
	if cfg.Account.Timeout <= 0 {
		return fmt.Errorf("invalid account timeout: %s (must be positive)", cfg.Account.Timeout)
	}

	if cfg.Events.Endpoint != "" {
		if err := validateURL("events.endpoint", cfg.Events.Endpoint); err != nil {
			return err
		}
	}
	if cfg.Events.BufferSize <= 0 {
		return fmt.Errorf("invalid events buffer size: %d (must be positive)", cfg.Events.BufferSize)
	}
	if cfg.Events.FlushTimeout < 0 {
		return fmt.Errorf("invalid events flush timeout: %s", cfg.Events.FlushTimeout)
	}
	if cfg.Events.RateLimit < 0 {
		return fmt.Errorf("invalid events rate limit: %g (must not be negative)", cfg.Events.RateLimit)
	}

	if cfg.Prompt.MaxAttempts <= 0 {
		return fmt.Errorf("invalid prompt max attempts: %d (must be positive)", cfg.Prompt.MaxAttempts)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q (must be an http or https URL)", key, raw)
	}
	return nil
}
