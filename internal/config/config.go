// Package config loads the daemon configuration from defaults, an optional
// config file and REFLECTD_-prefixed environment variables, in that priority
// order.
package config

import (
	"fmt"
	"time"
)

// Config is the root daemon configuration.
type Config struct {
	Node     NodeConfig     `mapstructure:"node"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Index    IndexConfig    `mapstructure:"index"`
	RPC      RPCConfig      `mapstructure:"rpc"`
	Treasury TreasuryConfig `mapstructure:"treasury"`
	Log      LogConfig      `mapstructure:"log"`
}

// NodeConfig identifies the deployment.
type NodeConfig struct {
	ChainID string `mapstructure:"chain_id"`
	DataDir string `mapstructure:"data_dir"`
}

// StorageConfig selects the kv backend for ledger state.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// IndexConfig configures the transfer-event index.
type IndexConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RPCConfig configures the JSON-RPC and websocket surfaces.
type RPCConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	EnableWS   bool   `mapstructure:"enable_ws"`
}

// TreasuryConfig configures the liquify trigger and collaborators.
type TreasuryConfig struct {
	// MinLiquifyInterval is the minimum gap between throttled liquify
	// triggers, in seconds.
	MinLiquifyInterval uint64 `mapstructure:"min_liquify_interval"`

	// PairCacheSize bounds the venue listing cache.
	PairCacheSize int `mapstructure:"pair_cache_size"`

	// VenueEndpoint is the JSON gateway venue queries go through. Empty
	// disables venue queries; pair bindings and liquify planning will be
	// rejected until one is configured.
	VenueEndpoint string `mapstructure:"venue_endpoint"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the configuration for values the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Node.DataDir == "" {
		return fmt.Errorf("node.data_dir is required")
	}
	switch c.Storage.Backend {
	case "memory", "pebble", "leveldb":
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, pebble, leveldb", c.Storage.Backend)
	}
	if c.Index.Enabled {
		switch c.Index.Backend {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("index.backend %q is not one of sqlite, postgres", c.Index.Backend)
		}
		if c.Index.Backend == "postgres" && c.Index.DSN == "" {
			return fmt.Errorf("index.dsn is required for the postgres backend")
		}
	}
	if c.RPC.ListenAddr == "" {
		return fmt.Errorf("rpc.listen_addr is required")
	}
	if c.Treasury.PairCacheSize <= 0 {
		return fmt.Errorf("treasury.pair_cache_size must be positive")
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not a known level", c.Log.Level)
	}
	return nil
}
