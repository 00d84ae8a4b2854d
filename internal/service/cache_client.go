package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/algorithm"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/client"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/metrics"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/store"
)

// CacheClient orchestrates Get/Set/Delete across the replica set chosen by
// the hash ring, branching on the requested consistency level. It owns the
// per-key version vectors, the replication log sequence and the operation
// counters.
//
// Per-replica RPC failures are logged and tallied but never abort the
// fan-out; an operation's outcome is decided solely by whether its
// consistency level's acknowledgement threshold was met.
type CacheClient struct {
	localNode         *model.ClusterNode
	ring              *algorithm.HashRing
	pool              *client.Pool
	replicationFactor int
	defaultLevel      ConsistencyLevel
	lockExpirySeconds int

	logStore store.ReplicationLogStore
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu      sync.Mutex
	vectors map[string]model.VersionVector // per-key caller-tracked vectors
	logSeq  int64
	stats   model.OperationStats
}

// NewCacheClient creates a cache client over an already-populated ring and
// connection pool.
func NewCacheClient(
	localNode *model.ClusterNode,
	ring *algorithm.HashRing,
	pool *client.Pool,
	replicationFactor int,
	defaultLevel ConsistencyLevel,
	lockExpirySeconds int,
	logStore store.ReplicationLogStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CacheClient {
	if lockExpirySeconds <= 0 {
		lockExpirySeconds = 30
	}
	return &CacheClient{
		localNode:         localNode,
		ring:              ring,
		pool:              pool,
		replicationFactor: replicationFactor,
		defaultLevel:      defaultLevel,
		lockExpirySeconds: lockExpirySeconds,
		logStore:          logStore,
		metrics:           m,
		logger:            logger,
		vectors:           make(map[string]model.VersionVector),
	}
}

// replicaRead is one replica's answer to a fan-out read
type replicaRead struct {
	nodeID string
	value  []byte
	found  bool
	meta   *model.VersionMetadata
	err    error
}

// Get reads a value at the requested consistency level
func (c *CacheClient) Get(ctx context.Context, key string, level ConsistencyLevel) ([]byte, bool, error) {
	level, err := normalizeLevel(level, c.defaultLevel)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	c.countTotal()

	var (
		value []byte
		found bool
	)

	switch level {
	case Strong:
		value, found, err = c.strongGet(ctx, key)
	case Causal:
		value, found, err = c.causalGet(ctx, key)
	default:
		// Sequential reads provide no ordering beyond the eventual path
		value, found, err = c.eventualGet(ctx, key)
	}

	c.finish("get", level, start, err)
	return value, found, err
}

// eventualGet reads from the single ring owner of the key
func (c *CacheClient) eventualGet(ctx context.Context, key string) ([]byte, bool, error) {
	node, ok := c.ring.GetNode(key)
	if !ok {
		return nil, false, ErrNoNodesAvailable
	}

	// The owner may be the local node; its connection serves local reads
	cl, err := c.pool.Get(node.NodeID)
	if err != nil {
		return nil, false, err
	}

	value, found, err := cl.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Read failed",
			zap.String("key", key),
			zap.String("node_id", node.NodeID),
			zap.Error(err))
		c.metrics.RecordReplicaFailure(node.NodeID, "get")
		return nil, false, err
	}
	return value, found, nil
}

// strongGet reads value and version metadata from every replica and picks
// the most recently written version among the successful responses.
// Read-repair by recency, not a linearizable read.
func (c *CacheClient) strongGet(ctx context.Context, key string) ([]byte, bool, error) {
	replicas := c.ring.GetNodes(key, c.replicationFactor)
	if len(replicas) == 0 {
		return nil, false, ErrNoNodesAvailable
	}

	reads := c.fanOutReads(ctx, key, replicas)

	var (
		latest   *replicaRead
		latestAt time.Time
		okCount  int
	)
	for i := range reads {
		r := &reads[i]
		if r.err != nil {
			continue
		}
		okCount++
		if !r.found {
			continue
		}
		at := metadataTime(r.meta)
		if latest == nil || at.After(latestAt) {
			latest = r
			latestAt = at
		}
	}

	if okCount == 0 {
		c.metrics.RecordQuorumFailure("get")
		return nil, false, ErrAllReplicasFailed
	}
	if latest == nil {
		// Indistinguishable from the partial-failure case at the public
		// boolean surface: a miss and a failed replica set both read as
		// not found.
		return nil, false, nil
	}
	return latest.value, true, nil
}

// causalGet returns a replica's value only when the caller's tracked vector
// for the key dominates that replica's vector, falling back to the eventual
// path otherwise.
func (c *CacheClient) causalGet(ctx context.Context, key string) ([]byte, bool, error) {
	replicas := c.ring.GetNodes(key, c.replicationFactor)
	if len(replicas) == 0 {
		return nil, false, ErrNoNodesAvailable
	}

	c.mu.Lock()
	local, tracked := c.vectors[key]
	if tracked {
		local = local.Clone()
	}
	c.mu.Unlock()

	if tracked {
		reads := c.fanOutReads(ctx, key, replicas)
		for i := range reads {
			r := &reads[i]
			if r.err != nil || !r.found || r.meta == nil {
				continue
			}
			// A replica's vector is derived from its stored version
			// metadata: one entry for the writing node at its sequence
			// number.
			replicaVec := model.VersionVector{
				Counters: map[string]int64{r.meta.NodeID: r.meta.SequenceNumber},
			}
			if local.Dominates(replicaVec) {
				return r.value, true, nil
			}
		}
	}

	return c.eventualGet(ctx, key)
}

// fanOutReads issues concurrent value + version-metadata reads to every
// replica and joins them before returning.
func (c *CacheClient) fanOutReads(ctx context.Context, key string, replicas []*model.ClusterNode) []replicaRead {
	reads := make([]replicaRead, len(replicas))

	g, gctx := errgroup.WithContext(ctx)
	for i, replica := range replicas {
		i, replica := i, replica
		g.Go(func() error {
			reads[i] = c.readReplica(gctx, replica, key)
			return nil
		})
	}
	_ = g.Wait()

	return reads
}

// readReplica reads one replica's value and version metadata
func (c *CacheClient) readReplica(ctx context.Context, replica *model.ClusterNode, key string) replicaRead {
	r := replicaRead{nodeID: replica.NodeID}

	cl, err := c.pool.Get(replica.NodeID)
	if err != nil {
		r.err = err
		return r
	}

	r.value, r.found, r.err = cl.Get(ctx, key)
	if r.err != nil {
		c.logger.Warn("Replica read failed",
			zap.String("key", key),
			zap.String("node_id", replica.NodeID),
			zap.Error(r.err))
		c.metrics.RecordReplicaFailure(replica.NodeID, "get")
		return r
	}

	raw, found, err := cl.Get(ctx, model.VersionKey(key))
	if err != nil || !found {
		return r
	}
	var meta model.VersionMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		c.logger.Warn("Corrupt version metadata",
			zap.String("key", key),
			zap.String("node_id", replica.NodeID),
			zap.Error(err))
		return r
	}
	r.meta = &meta
	return r
}

// Set writes a value at the requested consistency level. ttlSeconds <= 0
// stores without expiry.
func (c *CacheClient) Set(ctx context.Context, key string, value []byte, ttlSeconds int, level ConsistencyLevel) error {
	level, err := normalizeLevel(level, c.defaultLevel)
	if err != nil {
		return err
	}

	start := time.Now()
	c.countTotal()

	entry := c.appendLog(ctx, "set", key, value)

	switch level {
	case Strong:
		err = c.strongSet(ctx, key, value, ttlSeconds, entry)
	case Sequential:
		err = c.sequentialSet(ctx, key, value, ttlSeconds, entry)
	case Causal:
		err = c.causalSet(ctx, key, value, ttlSeconds, entry)
	default:
		err = c.eventualSet(ctx, key, value, ttlSeconds, entry)
	}

	c.finish("set", level, start, err)
	return err
}

// eventualSet succeeds once one replica acknowledges, then bumps the local
// vector for the key
func (c *CacheClient) eventualSet(ctx context.Context, key string, value []byte, ttlSeconds int, entry *model.ReplicationLogEntry) error {
	acked, total := c.replicate(ctx, key, value, ttlSeconds, entry)
	if acked < 1 {
		c.logger.Warn("Write failed on every replica",
			zap.String("key", key),
			zap.Int("replicas", total))
		return ErrAllReplicasFailed
	}
	c.incrementVector(key)
	return nil
}

// strongSet succeeds once a quorum of replicas acknowledges
func (c *CacheClient) strongSet(ctx context.Context, key string, value []byte, ttlSeconds int, entry *model.ReplicationLogEntry) error {
	acked, total := c.replicate(ctx, key, value, ttlSeconds, entry)
	if !algorithm.QuorumReached(acked, total) {
		c.logger.Warn("Quorum not met for write",
			zap.String("key", key),
			zap.Int("acked", acked),
			zap.Int("required", algorithm.QuorumSize(total)))
		c.metrics.RecordQuorumFailure("set")
		return ErrQuorumNotMet
	}
	return nil
}

// sequentialSet serializes same-key writers behind a cluster-wide lease
// lock before taking the eventual write path. The lease auto-expires, so a
// crashed holder blocks other writers for at most the lock expiry.
func (c *CacheClient) sequentialSet(ctx context.Context, key string, value []byte, ttlSeconds int, entry *model.ReplicationLogEntry) error {
	lockKey := model.LockKey(key)
	lockNode, ok := c.ring.GetNode(lockKey)
	if !ok {
		return ErrNoNodesAvailable
	}

	cl, err := c.pool.Get(lockNode.NodeID)
	if err != nil {
		return err
	}

	acquired, err := cl.SetIfAbsent(ctx, lockKey, []byte(entry.LogID), c.lockExpirySeconds)
	if err != nil || !acquired {
		c.logger.Warn("Lease lock not acquired",
			zap.String("key", key),
			zap.String("lock_node", lockNode.NodeID),
			zap.Error(err))
		c.metrics.RecordLockAcquisition("failed")
		return ErrLockNotAcquired
	}
	c.metrics.RecordLockAcquisition("acquired")

	defer func() {
		if err := cl.Delete(ctx, lockKey); err != nil {
			// The lease expiry reclaims the lock if the release is lost
			c.logger.Warn("Failed to release lease lock",
				zap.String("key", key),
				zap.Error(err))
		}
	}()

	return c.eventualSet(ctx, key, value, ttlSeconds, entry)
}

// causalSet bumps the local vector before replicating on the eventual
// acknowledgement threshold
func (c *CacheClient) causalSet(ctx context.Context, key string, value []byte, ttlSeconds int, entry *model.ReplicationLogEntry) error {
	c.incrementVector(key)

	acked, total := c.replicate(ctx, key, value, ttlSeconds, entry)
	if acked < 1 {
		c.logger.Warn("Write failed on every replica",
			zap.String("key", key),
			zap.Int("replicas", total))
		return ErrAllReplicasFailed
	}
	return nil
}

// replicate issues concurrent value + version-metadata writes to every
// replica and joins them before returning the acknowledgement count.
func (c *CacheClient) replicate(ctx context.Context, key string, value []byte, ttlSeconds int, entry *model.ReplicationLogEntry) (acked, total int) {
	replicas := c.ring.GetNodes(key, c.replicationFactor)
	if len(replicas) == 0 {
		return 0, 0
	}

	meta := model.VersionMetadata{
		NodeID:         entry.NodeID,
		Timestamp:      entry.Timestamp.Format(time.RFC3339Nano),
		SequenceNumber: entry.SequenceNumber,
		Checksum:       entry.Checksum,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		c.logger.Error("Failed to encode version metadata",
			zap.String("key", key),
			zap.Error(err))
		c.metrics.RecordError("set", "serialization")
		return 0, len(replicas)
	}

	acks := make([]bool, len(replicas))

	g, gctx := errgroup.WithContext(ctx)
	for i, replica := range replicas {
		i, replica := i, replica
		g.Go(func() error {
			acks[i] = c.writeReplica(gctx, replica, key, value, metaBytes, ttlSeconds)
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range acks {
		if ok {
			acked++
		}
	}
	return acked, len(replicas)
}

// writeReplica writes value and companion metadata to one replica. The
// replica acknowledges only when both writes land.
func (c *CacheClient) writeReplica(ctx context.Context, replica *model.ClusterNode, key string, value, metaBytes []byte, ttlSeconds int) bool {
	cl, err := c.pool.Get(replica.NodeID)
	if err == nil {
		if err = cl.Set(ctx, key, value, ttlSeconds); err == nil {
			err = cl.Set(ctx, model.VersionKey(key), metaBytes, ttlSeconds)
		}
	}
	if err != nil {
		c.logger.Warn("Replica write failed",
			zap.String("key", key),
			zap.String("node_id", replica.NodeID),
			zap.Error(err))
		c.metrics.RecordReplicaFailure(replica.NodeID, "set")
		return false
	}
	return true
}

// Delete removes a key and its version metadata from the replica set.
// Strong requires every replica to acknowledge; all other levels require
// one.
func (c *CacheClient) Delete(ctx context.Context, key string, level ConsistencyLevel) error {
	level, err := normalizeLevel(level, c.defaultLevel)
	if err != nil {
		return err
	}

	start := time.Now()
	c.countTotal()

	err = c.deleteReplicas(ctx, key, level)
	c.finish("delete", level, start, err)
	return err
}

func (c *CacheClient) deleteReplicas(ctx context.Context, key string, level ConsistencyLevel) error {
	replicas := c.ring.GetNodes(key, c.replicationFactor)
	if len(replicas) == 0 {
		return ErrNoNodesAvailable
	}

	c.appendLog(ctx, "delete", key, nil)

	acks := make([]bool, len(replicas))

	g, gctx := errgroup.WithContext(ctx)
	for i, replica := range replicas {
		i, replica := i, replica
		g.Go(func() error {
			cl, err := c.pool.Get(replica.NodeID)
			if err == nil {
				err = cl.Delete(gctx, key, model.VersionKey(key))
			}
			if err != nil {
				c.logger.Warn("Replica delete failed",
					zap.String("key", key),
					zap.String("node_id", replica.NodeID),
					zap.Error(err))
				c.metrics.RecordReplicaFailure(replica.NodeID, "delete")
				return nil
			}
			acks[i] = true
			return nil
		})
	}
	_ = g.Wait()

	acked := 0
	for _, ok := range acks {
		if ok {
			acked++
		}
	}

	if level == Strong {
		if acked < len(replicas) {
			c.metrics.RecordQuorumFailure("delete")
			return ErrQuorumNotMet
		}
		return nil
	}
	if acked < 1 {
		return ErrAllReplicasFailed
	}
	return nil
}

// appendLog builds the immutable log entry for one mutation and persists
// it. Log persistence failures never fail the operation itself.
func (c *CacheClient) appendLog(ctx context.Context, operation, key string, value []byte) *model.ReplicationLogEntry {
	c.mu.Lock()
	seq := c.logSeq
	c.logSeq++
	c.mu.Unlock()

	entry := &model.ReplicationLogEntry{
		LogID:          uuid.NewString(),
		Operation:      operation,
		Key:            key,
		Value:          value,
		Timestamp:      time.Now().UTC(),
		NodeID:         c.localNode.NodeID,
		SequenceNumber: seq,
		Checksum:       model.ValueChecksum(value),
	}

	if err := c.logStore.Append(ctx, entry); err != nil {
		c.logger.Warn("Failed to persist replication log entry",
			zap.String("log_id", entry.LogID),
			zap.String("key", key),
			zap.Error(err))
	}

	return entry
}

// incrementVector bumps the local node's counter in the key's vector
func (c *CacheClient) incrementVector(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, exists := c.vectors[key]
	if !exists {
		vec = model.NewVersionVector()
	}
	vec.Increment(c.localNode.NodeID)
	c.vectors[key] = vec
}

// Vector returns a copy of the tracked vector for a key
func (c *CacheClient) Vector(key string) (model.VersionVector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, exists := c.vectors[key]
	if !exists {
		return model.VersionVector{}, false
	}
	return vec.Clone(), true
}

// Stats returns a snapshot of the operation counters
func (c *CacheClient) Stats() model.OperationStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *CacheClient) countTotal() {
	c.mu.Lock()
	c.stats.TotalOperations++
	c.mu.Unlock()
}

// finish settles the success/failure counters and metrics for one operation
func (c *CacheClient) finish(operation string, level ConsistencyLevel, start time.Time, err error) {
	c.mu.Lock()
	if err != nil {
		c.stats.FailedOperations++
	} else {
		c.stats.SuccessfulOperations++
	}
	c.mu.Unlock()

	c.metrics.RecordOperation(operation, string(level), time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordError(operation, errorType(err))
	}
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case err == ErrQuorumNotMet:
		return "quorum_not_met"
	case err == ErrLockNotAcquired:
		return "lock_not_acquired"
	case err == ErrNoNodesAvailable:
		return "no_nodes"
	case err == ErrAllReplicasFailed:
		return "all_replicas_failed"
	default:
		return "node_unreachable"
	}
}

// metadataTime parses a version record's timestamp, zero on absence
func metadataTime(meta *model.VersionMetadata) time.Time {
	if meta == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, meta.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
