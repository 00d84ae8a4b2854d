package store

import (
	"context"
	"sync"
	"time"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

// MemoryLogStore implements ReplicationLogStore with an in-process slice
type MemoryLogStore struct {
	entries []*model.ReplicationLogEntry
	mu      sync.RWMutex
}

// NewMemoryLogStore creates an empty in-memory log store
func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{
		entries: make([]*model.ReplicationLogEntry, 0),
	}
}

// Append stores one log entry
func (s *MemoryLogStore) Append(ctx context.Context, entry *model.ReplicationLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

// List returns up to limit entries for a key, oldest first
func (s *MemoryLogStore) List(ctx context.Context, key string, limit int) ([]*model.ReplicationLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.ReplicationLogEntry, 0)
	for _, entry := range s.entries {
		if entry.Key != key {
			continue
		}
		matched = append(matched, entry)
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

// Count returns the total number of entries
func (s *MemoryLogStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// Prune removes entries older than the retention window
func (s *MemoryLogStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	kept := make([]*model.ReplicationLogEntry, 0, len(s.entries))
	var removed int64
	for _, entry := range s.entries {
		if entry.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept
	return removed, nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryLogStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryLogStore) Close() error {
	return nil
}
