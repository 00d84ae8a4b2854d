package algorithm

// QuorumSize returns the number of acknowledgements required for a
// quorum over the given replica count: floor(n/2) + 1.
func QuorumSize(replicas int) int {
	return (replicas / 2) + 1
}

// QuorumReached reports whether the acknowledged count satisfies quorum
func QuorumReached(acked, replicas int) bool {
	return acked >= QuorumSize(replicas)
}
