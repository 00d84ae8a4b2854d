package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Config file is optional when environment variables cover the rest
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: Could not read config file %s: %v. Using defaults and environment variables.\n", configPath, err)
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvironmentOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvironmentOverrides applies environment variable overrides to config
func applyEnvironmentOverrides(cfg *Config) {
	if nodeID := os.Getenv("CACHE_NODE_ID"); nodeID != "" {
		cfg.Cluster.LocalNode.NodeID = nodeID
	}
	if host := os.Getenv("CACHE_NODE_HOST"); host != "" {
		cfg.Cluster.LocalNode.Host = host
	}
	if port := os.Getenv("CACHE_NODE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Cluster.LocalNode.Port = p
		}
	}
	if consistency := os.Getenv("CACHE_CONSISTENCY"); consistency != "" {
		cfg.Cluster.Consistency = consistency
	}
	if rf := os.Getenv("CACHE_REPLICATION_FACTOR"); rf != "" {
		if n, err := strconv.Atoi(rf); err == nil {
			cfg.Cluster.ReplicationFactor = n
		}
	}
	if password := os.Getenv("CACHE_TRANSPORT_PASSWORD"); password != "" {
		cfg.Transport.Password = password
	}
	if dsn := os.Getenv("CACHE_LOG_POSTGRES_DSN"); dsn != "" {
		cfg.Log.PostgresDSN = dsn
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}
