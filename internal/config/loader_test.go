package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "artifacts/nova_model.json", cfg.ModelPath)
	assert.Equal(t, "artifacts/feature_columns.json", cfg.SchemaPath)
	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, 300, cfg.CacheTTLSeconds)
	assert.Equal(t, 60, cfg.IPLimitPerMin)
	assert.Equal(t, 30, cfg.PredictLimitPerMin)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOVA_ADDR", ":9000")
	t.Setenv("NOVA_MODEL_PATH", "/opt/models/scorer.json")
	t.Setenv("NOVA_CACHE_TTL_SECONDS", "60")
	t.Setenv("NOVA_HISTORY_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/opt/models/scorer.json", cfg.ModelPath)
	assert.Equal(t, 60, cfg.CacheTTLSeconds)
	assert.False(t, cfg.HistoryEnabled)

	// Untouched fields keep their defaults.
	assert.Equal(t, "artifacts/feature_columns.json", cfg.SchemaPath)
}

func TestLoad_FileLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":7070\"\nip_limit_per_min: 120\nredis_addr: \"localhost:6379\"\n"), 0644))
	t.Setenv("NOVA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 120, cfg.IPLimitPerMin)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\n"), 0644))
	t.Setenv("NOVA_CONFIG", path)
	t.Setenv("NOVA_ADDR", ":9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		fails bool
	}{
		{"empty addr", map[string]string{"NOVA_ADDR": ""}, true},
		{"zero cache ttl", map[string]string{"NOVA_CACHE_TTL_SECONDS": "0"}, true},
		{"zero ip limit", map[string]string{"NOVA_IP_LIMIT_PER_MIN": "0"}, true},
		{"negative predict limit", map[string]string{"NOVA_PREDICT_LIMIT_PER_MIN": "-5"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.fails {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := New()

	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("NOVA_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
