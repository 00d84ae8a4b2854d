package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func vecOf(counters map[string]int64) VersionVector {
	return VersionVector{Counters: counters}
}

func TestIncrement(t *testing.T) {
	vec := NewVersionVector()

	vec.Increment("node-a")
	assert.Equal(t, int64(1), vec.Counters["node-a"])

	vec.Increment("node-a")
	assert.Equal(t, int64(2), vec.Counters["node-a"])

	vec.Increment("node-b")
	assert.Equal(t, int64(1), vec.Counters["node-b"])
	assert.Equal(t, int64(2), vec.Counters["node-a"])
}

func TestIncrementOnZeroValue(t *testing.T) {
	var vec VersionVector
	vec.Increment("node-a")
	assert.Equal(t, int64(1), vec.Counters["node-a"])
}

func TestMergeCommutative(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 3, "n2": 1})
	b := vecOf(map[string]int64{"n2": 5, "n3": 2})

	assert.Equal(t, a.Merge(b).Counters, b.Merge(a).Counters)
}

func TestMergeAssociative(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 1})
	b := vecOf(map[string]int64{"n1": 4, "n2": 2})
	c := vecOf(map[string]int64{"n3": 7})

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	assert.Equal(t, left.Counters, right.Counters)
}

func TestMergeIdempotent(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 3, "n2": 1})

	assert.Equal(t, a.Counters, a.Merge(a).Counters)
}

func TestMergeTakesMaximum(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 3, "n2": 1})
	b := vecOf(map[string]int64{"n1": 2, "n2": 6, "n3": 1})

	merged := a.Merge(b)
	assert.Equal(t, map[string]int64{"n1": 3, "n2": 6, "n3": 1}, merged.Counters)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 1})
	b := vecOf(map[string]int64{"n1": 2})

	_ = a.Merge(b)
	assert.Equal(t, int64(1), a.Counters["n1"])
	assert.Equal(t, int64(2), b.Counters["n1"])
}

func TestDominatesRequiresEveryCounter(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 3, "n2": 2})
	b := vecOf(map[string]int64{"n1": 2})

	assert.True(t, a.Dominates(b))
	assert.False(t, b.Dominates(a))
}

func TestDominatesFailsOnLowerCounter(t *testing.T) {
	a := vecOf(map[string]int64{"n1": 1, "n2": 5})
	b := vecOf(map[string]int64{"n1": 2})

	assert.False(t, a.Dominates(b))
}

func TestDominatesStrictLengthRule(t *testing.T) {
	// Counter-wise a supersedes b, but equal node-set sizes never
	// dominate: the comparison requires strictly more tracked nodes.
	a := vecOf(map[string]int64{"n1": 9})
	b := vecOf(map[string]int64{"n1": 1})
	assert.False(t, a.Dominates(b))

	c := vecOf(map[string]int64{"n1": 9, "n2": 1})
	assert.True(t, c.Dominates(b))

	// Disjoint equal-size vectors: missing counters read as zero, so
	// each side can satisfy the counter rule yet neither dominates.
	d := vecOf(map[string]int64{"n3": 0})
	assert.False(t, a.Dominates(d))
}

func TestIncrementNewNodeDominatesPriorSelf(t *testing.T) {
	vec := vecOf(map[string]int64{"n1": 2})
	before := vec.Clone()

	vec.Increment("n2")
	assert.True(t, vec.Dominates(before))
}
