package algorithm

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

// DefaultVirtualNodes is the number of ring positions assigned to each
// physical node when none is configured.
const DefaultVirtualNodes = 150

// HashRing implements consistent hashing with virtual nodes. Keys and
// nodes share a uint64 hash space; a key is owned by the first ring slot
// at or after its hash, wrapping around. Lookups are O(log V) over the
// sorted slot index.
type HashRing struct {
	virtualNodes int
	ring         []uint64                      // sorted slot hashes
	slotOwner    map[uint64]string             // slot hash -> node ID
	nodes        map[string]*model.ClusterNode // node registry
	mu           sync.RWMutex
}

// NewHashRing creates an empty ring with the given virtual node count.
// Non-positive counts fall back to DefaultVirtualNodes.
func NewHashRing(virtualNodes int) *HashRing {
	if virtualNodes <= 0 {
		virtualNodes = DefaultVirtualNodes
	}
	return &HashRing{
		virtualNodes: virtualNodes,
		ring:         make([]uint64, 0),
		slotOwner:    make(map[uint64]string),
		nodes:        make(map[string]*model.ClusterNode),
	}
}

// AddNode registers a node and inserts its virtual slots into the ring
func (r *HashRing) AddNode(node *model.ClusterNode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[node.NodeID]; exists {
		return
	}
	r.nodes[node.NodeID] = node

	for i := 0; i < r.virtualNodes; i++ {
		slot := r.hash(fmt.Sprintf("%s:%d", node.NodeID, i))
		r.ring = append(r.ring, slot)
		r.slotOwner[slot] = node.NodeID
	}

	sort.Slice(r.ring, func(i, j int) bool { return r.ring[i] < r.ring[j] })
}

// RemoveNode drops a node and all its virtual slots. Keys previously owned
// by the node remap to their new successor on the next lookup; stale data
// left on the removed node is never purged.
func (r *HashRing) RemoveNode(nodeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[nodeID]; !exists {
		return
	}
	delete(r.nodes, nodeID)

	newRing := make([]uint64, 0, len(r.ring))
	for _, slot := range r.ring {
		if r.slotOwner[slot] == nodeID {
			delete(r.slotOwner, slot)
			continue
		}
		newRing = append(newRing, slot)
	}
	r.ring = newRing
}

// GetNode returns the node owning the given key, or false on an empty ring
func (r *HashRing) GetNode(key string) (*model.ClusterNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ring) == 0 {
		return nil, false
	}

	idx := r.search(r.hash(key))
	return r.nodes[r.slotOwner[r.ring[idx]]], true
}

// GetNodes walks the ring from the key's position and collects up to count
// distinct physical nodes, skipping repeated virtual slots of nodes already
// collected. Fewer than count nodes are returned when the ring holds fewer
// physical nodes.
func (r *HashRing) GetNodes(key string, count int) []*model.ClusterNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ring) == 0 || count <= 0 {
		return nil
	}

	start := r.search(r.hash(key))
	nodes := make([]*model.ClusterNode, 0, count)
	seen := make(map[string]bool, count)

	for i := 0; i < len(r.ring) && len(nodes) < count; i++ {
		slot := r.ring[(start+i)%len(r.ring)]
		nodeID := r.slotOwner[slot]
		if seen[nodeID] {
			continue
		}
		seen[nodeID] = true
		nodes = append(nodes, r.nodes[nodeID])
	}

	return nodes
}

// Nodes returns all registered physical nodes
func (r *HashRing) Nodes() []*model.ClusterNode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]*model.ClusterNode, 0, len(r.nodes))
	for _, node := range r.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// NodeCount returns the number of physical nodes in the ring
func (r *HashRing) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// search returns the index of the first slot >= hash, wrapping to 0
func (r *HashRing) search(hash uint64) int {
	idx := sort.Search(len(r.ring), func(i int) bool {
		return r.ring[i] >= hash
	})
	if idx == len(r.ring) {
		idx = 0
	}
	return idx
}

// hash maps a key into the ring's keyspace. SHA-256 truncated to the first
// 8 bytes, big-endian; identical across every process in the cluster.
func (r *HashRing) hash(key string) uint64 {
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint64(sum[:8])
}
