// Package config defines process configuration and its loading order.
package config

// Store mode values.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the ops HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// Store selects the persistence backend: memory or mongo.
	Store string `koanf:"store"`

	// MongoURI and MongoDB locate the document database when Store is mongo.
	MongoURI string `koanf:"mongo_uri"`
	MongoDB  string `koanf:"mongo_db"`

	// SweepIntervalSeconds paces the lifecycle scheduler.
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds"`

	// CleanupTimeoutSeconds bounds one event's roster cleanup cascade.
	CleanupTimeoutSeconds int `koanf:"cleanup_timeout_seconds"`
}

// New returns a Config carrying the defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8090",
		Store:                 StoreMemory,
		MongoURI:              "mongodb://localhost:27017",
		MongoDB:               "hackdesk",
		SweepIntervalSeconds:  60,
		CleanupTimeoutSeconds: 30,
	}
}
