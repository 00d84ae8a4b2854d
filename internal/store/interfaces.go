package store

import (
	"context"
	"errors"
	"time"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

// ErrNotFound is returned when a log entry is not found
var ErrNotFound = errors.New("not found")

// ReplicationLogStore persists the replication log for audit and
// checksum verification. The in-memory implementation backs the default
// wiring; the Postgres implementation survives restarts.
type ReplicationLogStore interface {
	// Append stores one log entry
	Append(ctx context.Context, entry *model.ReplicationLogEntry) error

	// List returns up to limit entries for a key, oldest first
	List(ctx context.Context, key string, limit int) ([]*model.ReplicationLogEntry, error)

	// Count returns the total number of entries
	Count(ctx context.Context) (int64, error)

	// Prune removes entries older than the retention window and returns
	// how many were removed
	Prune(ctx context.Context, retention time.Duration) (int64, error)

	// Ping checks store availability
	Ping(ctx context.Context) error

	// Close releases store resources
	Close() error
}
