package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Filters FilterConfig  `mapstructure:"filters"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds catalog API connection details
type ServerConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Platform string        `mapstructure:"platform"`
}

// ClientConfig contains listing defaults
type ClientConfig struct {
	PageSize       int `mapstructure:"page_size"`
	PeoplePageSize int `mapstructure:"people_page_size"`
}

// CacheConfig tunes the read cache and retry policy
type CacheConfig struct {
	FreshWindow     time.Duration `mapstructure:"fresh_window"`
	EvictWindow     time.Duration `mapstructure:"evict_window"`
	ReadRetries     int           `mapstructure:"read_retries"`
	MutationRetries int           `mapstructure:"mutation_retries"`
}

// FilterConfig contains named filter presets
type FilterConfig map[string]string

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	ConfirmDelete bool `mapstructure:"confirm_delete"`
	ShowDetails   bool `mapstructure:"show_details"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
