package service

import "fmt"

// ConsistencyLevel selects the read/write contract for one operation
type ConsistencyLevel string

const (
	// Eventual succeeds once a single replica acknowledges
	Eventual ConsistencyLevel = "eventual"
	// Strong requires a quorum of replica acknowledgements
	Strong ConsistencyLevel = "strong"
	// Sequential serializes same-key writes behind a cluster-wide lease
	// lock. Reads share the eventual path.
	Sequential ConsistencyLevel = "sequential"
	// Causal consults version-vector dominance before reading and bumps
	// the writer's vector before writing
	Causal ConsistencyLevel = "causal"
)

// Valid reports whether the level is one of the four known levels
func (l ConsistencyLevel) Valid() bool {
	switch l {
	case Eventual, Strong, Sequential, Causal:
		return true
	default:
		return false
	}
}

// normalizeLevel resolves an empty level to the default and rejects
// unknown values
func normalizeLevel(level, defaultLevel ConsistencyLevel) (ConsistencyLevel, error) {
	if level == "" {
		return defaultLevel, nil
	}
	if !level.Valid() {
		return "", fmt.Errorf("invalid consistency level %q", level)
	}
	return level, nil
}
