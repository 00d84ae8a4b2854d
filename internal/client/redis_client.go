package client

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

// RedisNodeClient implements NodeClient against a Redis-speaking cache node
type RedisNodeClient struct {
	nodeID string
	client *redis.Client
	logger *zap.Logger
}

// RedisOptions tunes the per-node Redis connection
type RedisOptions struct {
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// NewRedisNodeClient creates a client for one cache node. The connection is
// established lazily; reachability is verified by the heartbeat loop, not
// at construction time.
func NewRedisNodeClient(node *model.ClusterNode, opts RedisOptions, logger *zap.Logger) *RedisNodeClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         node.Addr(),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	return &RedisNodeClient{
		nodeID: node.NodeID,
		client: rdb,
		logger: logger,
	}
}

// Get fetches a value from the node
func (c *RedisNodeClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores a value on the node
func (c *RedisNodeClient) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return c.client.Set(ctx, key, value, ttl(ttlSeconds)).Err()
}

// SetIfAbsent stores a value only when the key is vacant
func (c *RedisNodeClient) SetIfAbsent(ctx context.Context, key string, value []byte, ttlSeconds int) (bool, error) {
	return c.client.SetNX(ctx, key, value, ttl(ttlSeconds)).Result()
}

// Delete removes keys from the node
func (c *RedisNodeClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Expire resets a key's TTL on the node
func (c *RedisNodeClient) Expire(ctx context.Context, key string, ttlSeconds int) error {
	return c.client.Expire(ctx, key, ttl(ttlSeconds)).Err()
}

// Ping checks node reachability
func (c *RedisNodeClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool
func (c *RedisNodeClient) Close() error {
	c.logger.Debug("Closing node connection", zap.String("node_id", c.nodeID))
	return c.client.Close()
}

func ttl(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
