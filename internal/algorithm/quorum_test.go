package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuorumSize(t *testing.T) {
	tests := []struct {
		replicas int
		quorum   int
	}{
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{5, 3},
		{7, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.quorum, QuorumSize(tt.replicas), "replicas=%d", tt.replicas)
	}
}

func TestQuorumReached(t *testing.T) {
	assert.True(t, QuorumReached(2, 3))
	assert.True(t, QuorumReached(3, 3))
	assert.False(t, QuorumReached(1, 3))
	assert.False(t, QuorumReached(0, 3))
	assert.True(t, QuorumReached(1, 1))
	assert.False(t, QuorumReached(1, 2))
}
