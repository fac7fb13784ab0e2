package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if NOVA_CONFIG is set
//  3. env (prefix NOVA_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("NOVA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: NOVA_ADDR, NOVA_MODEL_PATH, ...
	// Map env keys like NOVA_CACHE_TTL_SECONDS -> cache_ttl_seconds (flat
	// keys, underscores preserved to match the koanf tags on the struct).
	envProvider := env.Provider("NOVA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "nova_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.ModelPath == "" || cfg.SchemaPath == "" {
		return nil, errors.New("model_path and schema_path must not be empty")
	}
	if cfg.CacheTTLSeconds <= 0 {
		return nil, errors.New("cache_ttl_seconds must be positive")
	}
	if cfg.IPLimitPerMin <= 0 || cfg.PredictLimitPerMin <= 0 {
		return nil, errors.New("rate limits must be positive")
	}
	return &cfg, nil
}

// CacheTTL returns the response cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
