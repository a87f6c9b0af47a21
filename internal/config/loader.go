package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load builds the configuration in priority order: defaults, then the config
// file when given, then REFLECTD_ environment variables.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix("REFLECTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node.chain_id", "reflect-local")
	v.SetDefault("node.data_dir", defaultDataDir())

	v.SetDefault("storage.backend", "pebble")

	v.SetDefault("index.enabled", true)
	v.SetDefault("index.backend", "sqlite")
	v.SetDefault("index.dsn", "")
	v.SetDefault("index.max_open_conns", 8)
	v.SetDefault("index.max_idle_conns", 4)
	v.SetDefault("index.conn_max_lifetime", "1h")

	v.SetDefault("rpc.listen_addr", "127.0.0.1:8545")
	v.SetDefault("rpc.enable_ws", true)

	v.SetDefault("treasury.min_liquify_interval", 1)
	v.SetDefault("treasury.pair_cache_size", 128)
	v.SetDefault("treasury.venue_endpoint", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return home + "/.reflectd"
}
