package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/config"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/metrics"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/store"
)

func managerTestConfig(nodeCount int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Cluster.LocalNode = config.NodeConfig{NodeID: "node-0", Host: "localhost", Port: 6379}
	cfg.Cluster.ClusterNodes = nil
	for i := 1; i < nodeCount; i++ {
		cfg.Cluster.ClusterNodes = append(cfg.Cluster.ClusterNodes, config.NodeConfig{
			NodeID: fmt.Sprintf("node-%d", i),
			Host:   "localhost",
			Port:   6379 + i,
		})
	}
	return cfg
}

// newTestManager swaps the pool's real connections for fakes after
// construction so no test touches the network
func newTestManager(t *testing.T, nodeCount int) (*CacheManager, map[string]*fakeNode) {
	t.Helper()

	mgr, err := NewCacheManager(
		managerTestConfig(nodeCount),
		store.NewMemoryLogStore(),
		metrics.NewMetrics(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	assert.NoError(t, err)

	fakes := make(map[string]*fakeNode, nodeCount)
	for _, node := range mgr.ring.Nodes() {
		fake := newFakeNode()
		fakes[node.NodeID] = fake
		mgr.pool.Put(node.NodeID, fake)
	}
	return mgr, fakes
}

func TestNewCacheManagerMissingLocalNode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cluster.LocalNode = config.NodeConfig{}

	_, err := NewCacheManager(
		cfg,
		store.NewMemoryLogStore(),
		metrics.NewMetrics(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	assert.ErrorIs(t, err, config.ErrMissingLocalNode)
}

func TestManagerSetGetDeleteRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t, 3)
	ctx := context.Background()

	payload := map[string]any{"name": "alice", "visits": float64(3)}
	assert.True(t, mgr.Set(ctx, "user:1", payload, 0, Eventual))

	value, found := mgr.Get(ctx, "user:1", Eventual)
	assert.True(t, found)
	assert.Equal(t, payload, value)

	assert.True(t, mgr.Delete(ctx, "user:1", Eventual))
	_, found = mgr.Get(ctx, "user:1", Eventual)
	assert.False(t, found)
}

func TestManagerSetUnserializableValue(t *testing.T) {
	mgr, _ := newTestManager(t, 3)

	assert.False(t, mgr.Set(context.Background(), "bad", make(chan int), 0, Eventual))
}

func TestHeartbeatMarksUnreachableNodeOffline(t *testing.T) {
	mgr, fakes := newTestManager(t, 3)
	ctx := context.Background()

	fakes["node-2"].fail(true)
	mgr.checkNodes(ctx)

	status := mgr.ClusterStatus()
	assert.Equal(t, 3, status.TotalNodes)
	assert.Equal(t, 2, status.OnlineNodes)
	for _, node := range status.Nodes {
		if node.NodeID == "node-2" {
			assert.Equal(t, model.StatusOffline, node.Status)
		} else {
			assert.Equal(t, model.StatusOnline, node.Status)
		}
	}

	// Recovery flips the node back on the next round
	fakes["node-2"].fail(false)
	mgr.checkNodes(ctx)
	assert.Equal(t, 3, mgr.ClusterStatus().OnlineNodes)
}

func TestClusterStatusSnapshot(t *testing.T) {
	mgr, _ := newTestManager(t, 2)

	status := mgr.ClusterStatus()
	assert.Equal(t, "node-0", status.LocalNode)
	assert.Equal(t, 2, status.ReplicationFactor)
	assert.Equal(t, "eventual", status.ConsistencyLevel)
	assert.Len(t, status.Nodes, 2)

	// Mutating the snapshot must not touch live ring state
	status.Nodes[0].Status = model.StatusOffline
	assert.Equal(t, 2, mgr.ClusterStatus().OnlineNodes)
}

func TestManagerStartShutdown(t *testing.T) {
	mgr, _ := newTestManager(t, 2)

	mgr.Start()
	mgr.Shutdown()

	// Connections are closed; a subsequent operation fails cleanly
	assert.False(t, mgr.Set(context.Background(), "k", "v", 0, Eventual))
}
