package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "cache-node-1", cfg.Cluster.LocalNode.NodeID)
	assert.Equal(t, 2, cfg.Cluster.ReplicationFactor)
	assert.Equal(t, 150, cfg.Cluster.VirtualNodes)
	assert.Equal(t, "eventual", cfg.Cluster.Consistency)
	assert.Equal(t, 30*time.Second, cfg.Cluster.HeartbeatInterval)
	assert.Equal(t, 30, cfg.Cluster.LockExpirySeconds)
	assert.Equal(t, 7*24*time.Hour, cfg.Log.Retention)
	assert.NoError(t, cfg.Validate())
}

func TestValidateMissingLocalNode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cluster.LocalNode.NodeID = ""

	assert.ErrorIs(t, cfg.Validate(), ErrMissingLocalNode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing local host", func(c *Config) { c.Cluster.LocalNode.Host = "" }},
		{"zero replication factor", func(c *Config) { c.Cluster.ReplicationFactor = 0 }},
		{"zero virtual nodes", func(c *Config) { c.Cluster.VirtualNodes = 0 }},
		{"unknown consistency", func(c *Config) { c.Cluster.Consistency = "linearizable" }},
		{"cluster node without id", func(c *Config) {
			c.Cluster.ClusterNodes = []NodeConfig{{Host: "localhost", Port: 6380}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cluster.Consistency = ""
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "eventual", cfg.Cluster.Consistency)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}
