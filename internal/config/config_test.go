package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pebble", cfg.Storage.Backend)
	assert.Equal(t, "sqlite", cfg.Index.Backend)
	assert.Equal(t, "127.0.0.1:8545", cfg.RPC.ListenAddr)
	assert.Equal(t, uint64(1), cfg.Treasury.MinLiquifyInterval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reflectd.toml")
	content := `
[node]
chain_id = "reflect-test"

[storage]
backend = "memory"

[treasury]
min_liquify_interval = 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "reflect-test", cfg.Node.ChainID)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, uint64(30), cfg.Treasury.MinLiquifyInterval)
	// untouched keys keep defaults
	assert.Equal(t, "127.0.0.1:8545", cfg.RPC.ListenAddr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/reflectd.toml")
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REFLECTD_STORAGE_BACKEND", "leveldb")
	t.Setenv("REFLECTD_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "leveldb", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad storage backend", func(c *Config) { c.Storage.Backend = "rocks" }},
		{"bad index backend", func(c *Config) { c.Index.Backend = "oracle" }},
		{"postgres without dsn", func(c *Config) { c.Index.Backend = "postgres"; c.Index.DSN = "" }},
		{"empty listen addr", func(c *Config) { c.RPC.ListenAddr = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero cache size", func(c *Config) { c.Treasury.PairCacheSize = 0 }},
		{"empty data dir", func(c *Config) { c.Node.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
