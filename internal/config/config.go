package config

import (
	"errors"
	"time"
)

// Config represents the cache cluster client configuration
type Config struct {
	Cluster   ClusterConfig   `mapstructure:"cluster"`
	Transport TransportConfig `mapstructure:"transport"`
	Log       LogStoreConfig  `mapstructure:"log_store"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// NodeConfig describes one cache node
type NodeConfig struct {
	NodeID string  `mapstructure:"node_id" json:"node_id"`
	Host   string  `mapstructure:"host" json:"host"`
	Port   int     `mapstructure:"port" json:"port"`
	Weight float64 `mapstructure:"weight" json:"weight"`
	Region string  `mapstructure:"region" json:"region"`
}

// ClusterConfig represents cluster membership and replication settings
type ClusterConfig struct {
	LocalNode         NodeConfig    `mapstructure:"local_node"`
	ClusterNodes      []NodeConfig  `mapstructure:"cluster_nodes"`
	Consistency       string        `mapstructure:"consistency"`
	ReplicationFactor int           `mapstructure:"replication_factor"`
	VirtualNodes      int           `mapstructure:"virtual_nodes"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	LagProbeInterval  time.Duration `mapstructure:"lag_probe_interval"`
	LockExpirySeconds int           `mapstructure:"lock_expiry_seconds"`
}

// TransportConfig tunes the per-node connections
type TransportConfig struct {
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// LogStoreConfig represents replication-log persistence settings. An empty
// DSN selects the in-memory store.
type LogStoreConfig struct {
	PostgresDSN string        `mapstructure:"postgres_dsn"`
	Retention   time.Duration `mapstructure:"retention"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// HealthConfig represents the health/API HTTP server configuration
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ErrMissingLocalNode is returned when the configuration carries no local
// node. This is the only fatal error class at initialization; everything
// downstream degrades to per-node failures.
var ErrMissingLocalNode = errors.New("cluster.local_node is required")

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cluster.LocalNode.NodeID == "" {
		return ErrMissingLocalNode
	}
	if c.Cluster.LocalNode.Host == "" {
		return errors.New("cluster.local_node.host is required")
	}
	if c.Cluster.ReplicationFactor <= 0 {
		return errors.New("cluster.replication_factor must be positive")
	}
	if c.Cluster.VirtualNodes <= 0 {
		return errors.New("cluster.virtual_nodes must be positive")
	}
	for _, node := range c.Cluster.ClusterNodes {
		if node.NodeID == "" || node.Host == "" {
			return errors.New("cluster.cluster_nodes entries require node_id and host")
		}
	}
	if c.Cluster.Consistency == "" {
		c.Cluster.Consistency = "eventual"
	}
	if !isValidConsistencyLevel(c.Cluster.Consistency) {
		return errors.New("cluster.consistency must be one of: eventual, strong, sequential, causal")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	return nil
}

// isValidConsistencyLevel checks if the consistency level is valid
func isValidConsistencyLevel(level string) bool {
	switch level {
	case "eventual", "strong", "sequential", "causal":
		return true
	default:
		return false
	}
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	return &Config{
		Cluster: ClusterConfig{
			LocalNode: NodeConfig{
				NodeID: "cache-node-1",
				Host:   "localhost",
				Port:   6379,
				Weight: 1.0,
				Region: "default",
			},
			ClusterNodes:      []NodeConfig{},
			Consistency:       "eventual",
			ReplicationFactor: 2,
			VirtualNodes:      150,
			HeartbeatInterval: 30 * time.Second,
			LagProbeInterval:  60 * time.Second,
			LockExpirySeconds: 30,
		},
		Transport: TransportConfig{
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     50,
		},
		Log: LogStoreConfig{
			PostgresDSN: "",
			Retention:   7 * 24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Health: HealthConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
