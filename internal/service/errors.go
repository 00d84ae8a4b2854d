package service

import "errors"

var (
	// ErrQuorumNotMet indicates a strong-consistency operation missed its
	// acknowledgement threshold
	ErrQuorumNotMet = errors.New("quorum not met")

	// ErrLockNotAcquired indicates a sequential write could not obtain the
	// cluster-wide lease lock
	ErrLockNotAcquired = errors.New("lease lock not acquired")

	// ErrNoNodesAvailable indicates the hash ring is empty
	ErrNoNodesAvailable = errors.New("no cache nodes available")

	// ErrAllReplicasFailed indicates every replica RPC for one operation
	// failed
	ErrAllReplicasFailed = errors.New("all replicas failed")
)
