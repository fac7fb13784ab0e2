// Package config defines service configuration and loading.
//
// Configuration layers, lowest to highest precedence:
//  1. built-in defaults (New)
//  2. YAML file named by NOVA_CONFIG
//  3. environment variables with the NOVA_ prefix
package config

// Config contains process configuration for the scoring service.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ModelPath points at the serialized scoring model artifact.
	ModelPath string `koanf:"model_path"`

	// SchemaPath points at the feature column listing the model was trained on.
	SchemaPath string `koanf:"schema_path"`

	// DataDir holds mutable state such as the prediction history database.
	DataDir string `koanf:"data_dir"`

	// HistoryEnabled toggles persistence of served predictions.
	HistoryEnabled bool `koanf:"history_enabled"`

	// Redis connection for distributed rate limiting. Empty addr disables
	// Redis and falls back to in-memory limiting.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds controls how long prediction responses stay cached.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// Rate limits, per client IP per minute.
	IPLimitPerMin      int `koanf:"ip_limit_per_min"`
	PredictLimitPerMin int `koanf:"predict_limit_per_min"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RequestTimeoutSeconds bounds end-to-end request handling.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8000",
		ModelPath:             "artifacts/nova_model.json",
		SchemaPath:            "artifacts/feature_columns.json",
		DataDir:               "data",
		HistoryEnabled:        true,
		RedisAddr:             "",
		RedisPassword:         "",
		RedisDB:               0,
		CacheTTLSeconds:       300,
		IPLimitPerMin:         60,
		PredictLimitPerMin:    30,
		CORSOrigins:           []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeoutSeconds: 30,
	}
}
