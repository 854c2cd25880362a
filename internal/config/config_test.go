package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.API.RateLimit)
	assert.Equal(t, 4, cfg.API.MaxAttempts)
	assert.Equal(t, int64(1_000_000), cfg.Analysis.IntervalSize)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.True(t, cfg.Analysis.CacheResults)
	assert.Equal(t, "./results", cfg.Output.Directory)
	assert.Empty(t, cfg.API.Key)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  key: secret-key
  rate_limit: 30
analysis:
  workers: 8
  cache_results: false
  assays: [rna_seq, dnase]
output:
  base_directory: /data/results
`), 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.API.Key)
	assert.Equal(t, 30, cfg.API.RateLimit)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.False(t, cfg.Analysis.CacheResults)
	assert.Equal(t, []string{"rna_seq", "dnase"}, cfg.Analysis.Assays)
	assert.Equal(t, "/data/results", cfg.Output.Directory)

	// File values merge over defaults.
	assert.Equal(t, 4, cfg.API.MaxAttempts)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ALPHAGENOME_API_KEY", "env-key")
	t.Setenv("ALPHAGENOME_API_RATE_LIMIT", "12")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, 12, cfg.API.RateLimit)
}

func TestLoadRejectsBadValues(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("analysis.workers", 0)

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}
