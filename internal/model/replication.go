package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ReplicationLogEntry is an immutable record of one mutation. Entries are
// appended to the local replication log and serve as the audit trail for
// replicated writes.
type ReplicationLogEntry struct {
	LogID          string    `json:"log_id"`
	Operation      string    `json:"operation"`
	Key            string    `json:"key"`
	Value          []byte    `json:"value"`
	Timestamp      time.Time `json:"timestamp"`
	NodeID         string    `json:"node_id"`
	SequenceNumber int64     `json:"sequence_number"`
	Checksum       string    `json:"checksum"`
}

// VersionMetadata is stored alongside a value at "{key}:version" on every
// node that accepts a write. Strong and causal reads use it to pick among
// divergent replicas.
type VersionMetadata struct {
	NodeID         string `json:"node_id"`
	Timestamp      string `json:"timestamp"`
	SequenceNumber int64  `json:"sequence_number"`
	Checksum       string `json:"checksum"`
}

// VersionKey returns the companion metadata key for a cache key
func VersionKey(key string) string {
	return key + ":version"
}

// LockKey returns the cluster-wide lease key guarding a cache key
func LockKey(key string) string {
	return "lock:" + key
}

// ValueChecksum computes the 16-hex-character checksum stored in log
// entries and version metadata. SHA-256 truncated to the first 8 bytes.
func ValueChecksum(value []byte) string {
	sum := sha256.Sum256(value)
	return hex.EncodeToString(sum[:8])
}
