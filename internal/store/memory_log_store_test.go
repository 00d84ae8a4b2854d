package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

func logEntry(key string, seq int64, age time.Duration) *model.ReplicationLogEntry {
	return &model.ReplicationLogEntry{
		LogID:          fmt.Sprintf("log-%s-%d", key, seq),
		Operation:      "set",
		Key:            key,
		Value:          []byte("v"),
		Timestamp:      time.Now().UTC().Add(-age),
		NodeID:         "node-1",
		SequenceNumber: seq,
		Checksum:       model.ValueChecksum([]byte("v")),
	}
}

func TestMemoryLogStoreAppendAndList(t *testing.T) {
	s := NewMemoryLogStore()
	ctx := context.Background()

	assert.NoError(t, s.Append(ctx, logEntry("foo", 0, 0)))
	assert.NoError(t, s.Append(ctx, logEntry("bar", 1, 0)))
	assert.NoError(t, s.Append(ctx, logEntry("foo", 2, 0)))

	entries, err := s.List(ctx, "foo", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(0), entries[0].SequenceNumber)
	assert.Equal(t, int64(2), entries[1].SequenceNumber)

	limited, err := s.List(ctx, "foo", 1)
	assert.NoError(t, err)
	assert.Len(t, limited, 1)

	count, err := s.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMemoryLogStoreListUnknownKey(t *testing.T) {
	s := NewMemoryLogStore()

	entries, err := s.List(context.Background(), "missing", 0)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryLogStorePrune(t *testing.T) {
	s := NewMemoryLogStore()
	ctx := context.Background()

	assert.NoError(t, s.Append(ctx, logEntry("old", 0, 48*time.Hour)))
	assert.NoError(t, s.Append(ctx, logEntry("fresh", 1, time.Minute)))

	removed, err := s.Prune(ctx, 24*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := s.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	entries, err := s.List(ctx, "fresh", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemoryLogStorePingAndClose(t *testing.T) {
	s := NewMemoryLogStore()

	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}
