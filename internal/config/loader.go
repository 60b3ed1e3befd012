package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HACKDESK_CONFIG is set
//  3. env (prefix HACKDESK_)
//
// A .env file, when present, is folded into the environment first.
func Load(_ context.Context) (*Config, error) {
	// .env is optional; real environments provide variables directly.
	_ = godotenv.Load()

	base := New()
	k := koanf.New(".")

	if path := os.Getenv("HACKDESK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// HACKDESK_SWEEP_INTERVAL_SECONDS -> sweep_interval_seconds, keeping
	// underscores to match the koanf tags on the struct.
	envProvider := env.Provider("HACKDESK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "hackdesk_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Store != StoreMemory && c.Store != StoreMongo {
		return fmt.Errorf("%w: store must be %q or %q, got %q", ErrInvalidConfig, StoreMemory, StoreMongo, c.Store)
	}
	if c.Store == StoreMongo && strings.TrimSpace(c.MongoURI) == "" {
		return fmt.Errorf("%w: mongo_uri must not be empty when store is mongo", ErrInvalidConfig)
	}
	if c.Store == StoreMongo && strings.TrimSpace(c.MongoDB) == "" {
		return fmt.Errorf("%w: mongo_db must not be empty when store is mongo", ErrInvalidConfig)
	}
	if c.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("%w: sweep_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.CleanupTimeoutSeconds < 0 {
		return fmt.Errorf("%w: cleanup_timeout_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}
