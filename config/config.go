package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check the user config directory, next to the credential store
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "moviedb"))
		}

		// Check /etc
		v.AddConfigPath("/etc/moviedb/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// No file is fine, defaults cover everything but server.url
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.url", "http://localhost:5000")
	v.SetDefault("server.timeout", 15*time.Second)
	v.SetDefault("server.platform", "cli")

	// Listing defaults
	v.SetDefault("client.page_size", 10)
	v.SetDefault("client.people_page_size", 20)

	// Cache defaults
	v.SetDefault("cache.fresh_window", 5*time.Minute)
	v.SetDefault("cache.evict_window", 10*time.Minute)
	v.SetDefault("cache.read_retries", 3)
	v.SetDefault("cache.mutation_retries", 1)

	// Safety defaults
	v.SetDefault("safety.confirm_delete", true)
	v.SetDefault("safety.show_details", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}

	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	if cfg.Client.PageSize <= 0 {
		return fmt.Errorf("client.page_size must be positive")
	}
	if cfg.Client.PeoplePageSize <= 0 {
		return fmt.Errorf("client.people_page_size must be positive")
	}

	if cfg.Cache.FreshWindow <= 0 {
		return fmt.Errorf("cache.fresh_window must be positive")
	}
	if cfg.Cache.EvictWindow < cfg.Cache.FreshWindow {
		return fmt.Errorf("cache.evict_window must be at least cache.fresh_window")
	}
	if cfg.Cache.ReadRetries < 0 {
		return fmt.Errorf("cache.read_retries must not be negative")
	}
	if cfg.Cache.MutationRetries < 0 {
		return fmt.Errorf("cache.mutation_retries must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
