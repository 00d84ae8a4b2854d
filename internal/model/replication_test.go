package model

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValueChecksum(t *testing.T) {
	sum := ValueChecksum([]byte("hello"))
	assert.Len(t, sum, 16)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), sum)

	// Deterministic, and sensitive to the value
	assert.Equal(t, sum, ValueChecksum([]byte("hello")))
	assert.NotEqual(t, sum, ValueChecksum([]byte("hello!")))
}

func TestReplicationLogEntryRoundTrip(t *testing.T) {
	entry := ReplicationLogEntry{
		LogID:          uuid.NewString(),
		Operation:      "set",
		Key:            "user:42",
		Value:          []byte(`{"name":"ada"}`),
		Timestamp:      time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC),
		NodeID:         "cache-node-1",
		SequenceNumber: 17,
		Checksum:       ValueChecksum([]byte(`{"name":"ada"}`)),
	}

	encoded, err := json.Marshal(entry)
	assert.NoError(t, err)

	var decoded ReplicationLogEntry
	assert.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, entry, decoded)
}

func TestVersionMetadataRoundTrip(t *testing.T) {
	meta := VersionMetadata{
		NodeID:         "cache-node-2",
		Timestamp:      time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC).Format(time.RFC3339Nano),
		SequenceNumber: 3,
		Checksum:       ValueChecksum([]byte("payload")),
	}

	encoded, err := json.Marshal(meta)
	assert.NoError(t, err)

	var decoded VersionMetadata
	assert.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, meta, decoded)

	// The timestamp survives with full precision
	parsed, err := time.Parse(time.RFC3339Nano, decoded.Timestamp)
	assert.NoError(t, err)
	assert.Equal(t, 589793238, parsed.Nanosecond())
}

func TestCompanionKeys(t *testing.T) {
	assert.Equal(t, "user:42:version", VersionKey("user:42"))
	assert.Equal(t, "lock:user:42", LockKey("user:42"))
}
