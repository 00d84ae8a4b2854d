package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/algorithm"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/client"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/config"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/metrics"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/store"
)

// CacheManager is the process-lifecycle wrapper around the cache client.
// It builds the ring and node connections from configuration, runs the
// heartbeat and replication-lag loops, and exposes the narrow public API
// other subsystems consume.
type CacheManager struct {
	cfg       *config.Config
	localNode *model.ClusterNode
	ring      *algorithm.HashRing
	pool      *client.Pool
	cache     *CacheClient
	logStore  store.ReplicationLogStore
	metrics   *metrics.Metrics
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex // guards node status mutation vs. status reads
}

// NewCacheManager builds the cluster topology from configuration and opens
// one connection per node. A configuration without a local node is the one
// fatal error; an unreachable node is not, the heartbeat loop will mark it
// offline.
func NewCacheManager(
	cfg *config.Config,
	logStore store.ReplicationLogStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*CacheManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cluster configuration: %w", err)
	}

	ring := algorithm.NewHashRing(cfg.Cluster.VirtualNodes)
	pool := client.NewPool(client.RedisOptions{
		Password:     cfg.Transport.Password,
		DB:           cfg.Transport.DB,
		DialTimeout:  cfg.Transport.DialTimeout,
		ReadTimeout:  cfg.Transport.ReadTimeout,
		WriteTimeout: cfg.Transport.WriteTimeout,
		PoolSize:     cfg.Transport.PoolSize,
	}, logger)

	localNode := newClusterNode(cfg.Cluster.LocalNode)
	ring.AddNode(localNode)
	pool.Connect(localNode)

	for _, nc := range cfg.Cluster.ClusterNodes {
		if nc.NodeID == localNode.NodeID {
			continue
		}
		node := newClusterNode(nc)
		ring.AddNode(node)
		pool.Connect(node)
	}

	cache := NewCacheClient(
		localNode,
		ring,
		pool,
		cfg.Cluster.ReplicationFactor,
		ConsistencyLevel(cfg.Cluster.Consistency),
		cfg.Cluster.LockExpirySeconds,
		logStore,
		m,
		logger,
	)

	logger.Info("Cache cluster initialized",
		zap.String("local_node", localNode.NodeID),
		zap.Int("total_nodes", ring.NodeCount()),
		zap.Int("replication_factor", cfg.Cluster.ReplicationFactor),
		zap.String("consistency", cfg.Cluster.Consistency))

	return &CacheManager{
		cfg:       cfg,
		localNode: localNode,
		ring:      ring,
		pool:      pool,
		cache:     cache,
		logStore:  logStore,
		metrics:   m,
		logger:    logger,
	}, nil
}

// newClusterNode builds a ClusterNode from its configuration. Roles are
// static: every node starts as a follower and nothing promotes it.
func newClusterNode(nc config.NodeConfig) *model.ClusterNode {
	weight := nc.Weight
	if weight <= 0 {
		weight = 1.0
	}
	region := nc.Region
	if region == "" {
		region = "default"
	}
	return &model.ClusterNode{
		NodeID:        nc.NodeID,
		Host:          nc.Host,
		Port:          nc.Port,
		Role:          model.RoleFollower,
		Status:        model.StatusOnline,
		LastHeartbeat: time.Now(),
		Weight:        weight,
		Region:        region,
	}
}

// Start launches the heartbeat and replication-lag loops
func (mgr *CacheManager) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	mgr.cancel = cancel

	mgr.wg.Add(2)
	go mgr.heartbeatLoop(ctx)
	go mgr.replicationLagLoop(ctx)
}

// Shutdown cancels the background loops and closes all node connections
func (mgr *CacheManager) Shutdown() {
	if mgr.cancel != nil {
		mgr.cancel()
	}
	mgr.wg.Wait()
	mgr.pool.Close()
	mgr.logger.Info("Cache manager stopped")
}

// heartbeatLoop pings every remote node on a fixed interval and flips its
// status between online and offline. This is the only code path that
// mutates node status.
func (mgr *CacheManager) heartbeatLoop(ctx context.Context) {
	defer mgr.wg.Done()

	interval := mgr.cfg.Cluster.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mgr.logger.Info("Heartbeat loop stopped")
			return
		case <-ticker.C:
			mgr.checkNodes(ctx)
		}
	}
}

// checkNodes runs one heartbeat round
func (mgr *CacheManager) checkNodes(ctx context.Context) {
	online := 0

	for _, node := range mgr.ring.Nodes() {
		if node.NodeID == mgr.localNode.NodeID {
			online++
			continue
		}

		cl, err := mgr.pool.Get(node.NodeID)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = cl.Ping(pingCtx)
			cancel()
		}

		mgr.mu.Lock()
		if err != nil {
			if node.Status != model.StatusOffline {
				mgr.logger.Warn("Node failed heartbeat, marking offline",
					zap.String("node_id", node.NodeID),
					zap.Error(err))
			}
			node.Status = model.StatusOffline
		} else {
			if node.Status != model.StatusOnline {
				mgr.logger.Info("Node answered heartbeat, marking online",
					zap.String("node_id", node.NodeID))
			}
			node.Status = model.StatusOnline
			node.LastHeartbeat = time.Now()
			online++
		}
		mgr.mu.Unlock()
	}

	mgr.metrics.UpdateNodesOnline(online)
}

// replicationLagLoop is reserved for lag measurement. Until a probe
// exists it only prunes the replication log on each tick and reports a
// zero lag gauge.
func (mgr *CacheManager) replicationLagLoop(ctx context.Context) {
	defer mgr.wg.Done()

	interval := mgr.cfg.Cluster.LagProbeInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mgr.logger.Info("Replication lag loop stopped")
			return
		case <-ticker.C:
			if removed, err := mgr.logStore.Prune(ctx, mgr.cfg.Log.Retention); err != nil {
				mgr.logger.Warn("Replication log prune failed", zap.Error(err))
			} else if removed > 0 {
				mgr.logger.Debug("Pruned replication log",
					zap.Int64("entries_removed", removed))
			}
			mgr.metrics.UpdateReplicationLag(0)
		}
	}
}

// Get reads a value. An empty level selects the configured default. The
// boolean result conflates a miss with a failed replica set; callers who
// need the distinction must use the cache client directly.
func (mgr *CacheManager) Get(ctx context.Context, key string, level ConsistencyLevel) (any, bool) {
	raw, found, err := mgr.cache.Get(ctx, key, level)
	if err != nil {
		mgr.logger.Warn("Get failed",
			zap.String("key", key),
			zap.String("level", string(level)),
			zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		mgr.logger.Warn("Failed to decode cached value",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return value, true
}

// Set writes a value. ttlSeconds <= 0 stores without expiry; an empty
// level selects the configured default.
func (mgr *CacheManager) Set(ctx context.Context, key string, value any, ttlSeconds int, level ConsistencyLevel) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		mgr.logger.Error("Failed to encode value",
			zap.String("key", key),
			zap.Error(err))
		mgr.metrics.RecordError("set", "serialization")
		return false
	}

	if err := mgr.cache.Set(ctx, key, raw, ttlSeconds, level); err != nil {
		mgr.logger.Warn("Set failed",
			zap.String("key", key),
			zap.String("level", string(level)),
			zap.Error(err))
		return false
	}
	return true
}

// Delete removes a key from its replica set
func (mgr *CacheManager) Delete(ctx context.Context, key string, level ConsistencyLevel) bool {
	if err := mgr.cache.Delete(ctx, key, level); err != nil {
		mgr.logger.Warn("Delete failed",
			zap.String("key", key),
			zap.String("level", string(level)),
			zap.Error(err))
		return false
	}
	return true
}

// ClusterStatus returns a snapshot of cluster membership and operation
// counters
func (mgr *CacheManager) ClusterStatus() model.ClusterStatus {
	mgr.mu.RLock()
	nodes := mgr.ring.Nodes()
	online := 0
	snapshot := make([]*model.ClusterNode, 0, len(nodes))
	for _, node := range nodes {
		copied := *node
		snapshot = append(snapshot, &copied)
		if copied.Status == model.StatusOnline {
			online++
		}
	}
	mgr.mu.RUnlock()

	return model.ClusterStatus{
		TotalNodes:        len(snapshot),
		OnlineNodes:       online,
		LocalNode:         mgr.localNode.NodeID,
		Nodes:             snapshot,
		ReplicationFactor: mgr.cfg.Cluster.ReplicationFactor,
		ConsistencyLevel:  mgr.cfg.Cluster.Consistency,
		Stats:             mgr.cache.Stats(),
	}
}

// Cache exposes the underlying cache client for callers that need error
// returns instead of the boolean surface
func (mgr *CacheManager) Cache() *CacheClient {
	return mgr.cache
}
