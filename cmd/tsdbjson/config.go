package main

import "time"

const (
	defaultTimeout     = 5 * time.Minute
	defaultConcurrency = 4
	defaultLogLevel    = "info"
	defaultStore       = "file"
)

// storeConfig names a registered store and carries its factory config map.
type storeConfig struct {
	Store  string            `mapstructure:"store"`
	Config map[string]string `mapstructure:"config"`
}

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Source      storeConfig   `mapstructure:"source"`
	Destination storeConfig   `mapstructure:"destination"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	LogLevel    string        `mapstructure:"log-level"`

	// DisableRecords omits the structured-record interpreter from the
	// decode chain.
	DisableRecords bool `mapstructure:"disable-records"`

	ConfigPath string `mapstructure:"-"` // not from config file
}
