package model

import "time"

// VersionVector tracks per-node logical counters for causality comparisons.
// Merge forms a join semilattice: commutative, associative and idempotent.
type VersionVector struct {
	Counters  map[string]int64 `json:"counters"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewVersionVector creates an empty version vector
func NewVersionVector() VersionVector {
	return VersionVector{
		Counters:  make(map[string]int64),
		Timestamp: time.Now(),
	}
}

// Increment bumps the counter for the given node and refreshes the timestamp
func (v *VersionVector) Increment(nodeID string) {
	if v.Counters == nil {
		v.Counters = make(map[string]int64)
	}
	v.Counters[nodeID]++
	v.Timestamp = time.Now()
}

// Merge returns a new vector holding the pairwise maximum of both vectors.
// Neither receiver nor argument is modified.
func (v VersionVector) Merge(other VersionVector) VersionVector {
	merged := make(map[string]int64, len(v.Counters)+len(other.Counters))
	for nodeID, counter := range v.Counters {
		merged[nodeID] = counter
	}
	for nodeID, counter := range other.Counters {
		if counter > merged[nodeID] {
			merged[nodeID] = counter
		}
	}

	ts := v.Timestamp
	if other.Timestamp.After(ts) {
		ts = other.Timestamp
	}

	return VersionVector{Counters: merged, Timestamp: ts}
}

// Dominates reports whether this vector supersedes other. Every counter in
// other must be matched or exceeded here, and this vector must track
// strictly more nodes than other. The strict length requirement deviates
// from textbook vector-clock dominance; callers depend on the asymmetry,
// so it is kept as-is.
func (v VersionVector) Dominates(other VersionVector) bool {
	for nodeID, counter := range other.Counters {
		if v.Counters[nodeID] < counter {
			return false
		}
	}
	return len(v.Counters) > len(other.Counters)
}

// Clone returns an independent copy of the vector
func (v VersionVector) Clone() VersionVector {
	counters := make(map[string]int64, len(v.Counters))
	for nodeID, counter := range v.Counters {
		counters[nodeID] = counter
	}
	return VersionVector{Counters: counters, Timestamp: v.Timestamp}
}
