// Package client provides the RPC surface for talking to remote cache
// nodes. NodeClient abstracts one node's key-value interface; the concrete
// implementation speaks the Redis protocol.
package client

import "context"

// NodeClient is the minimal key-value surface a remote cache node exposes.
// Implementations own their transport-level timeouts; callers do not layer
// additional deadlines on individual calls.
type NodeClient interface {
	// Get fetches a value. found is false on a cache miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores a value. ttlSeconds <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// SetIfAbsent stores a value only when the key does not exist.
	// Used exclusively for lease locks.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttlSeconds int) (acquired bool, err error)

	// Delete removes one or more keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Expire resets a key's TTL.
	Expire(ctx context.Context, key string, ttlSeconds int) error

	// Ping checks node reachability.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
