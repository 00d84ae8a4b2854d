package model

import (
	"fmt"
	"time"
)

// ClusterNode represents one cache node in the cluster
type ClusterNode struct {
	NodeID        string     `json:"node_id"`
	Host          string     `json:"host"`
	Port          int        `json:"port"`
	Role          NodeRole   `json:"role"`
	Status        NodeStatus `json:"status"`
	LastHeartbeat time.Time  `json:"last_heartbeat"`
	Weight        float64    `json:"weight"`
	Region        string     `json:"region"`
}

// Addr returns the host:port address of the node
func (n *ClusterNode) Addr() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// NodeRole represents the role of a node in the cluster.
// Role transitions are an extension point: no code path currently
// promotes or demotes nodes.
type NodeRole string

const (
	// RoleLeader indicates the node coordinates cluster-wide decisions
	RoleLeader NodeRole = "leader"
	// RoleFollower indicates a regular replica node
	RoleFollower NodeRole = "follower"
	// RoleCandidate indicates a node campaigning for leadership
	RoleCandidate NodeRole = "candidate"
)

// NodeStatus represents the reachability of a cache node
type NodeStatus string

const (
	// StatusOnline indicates the node answered its last heartbeat ping
	StatusOnline NodeStatus = "online"
	// StatusOffline indicates the node failed its last heartbeat ping
	StatusOffline NodeStatus = "offline"
	// StatusRecovering indicates a node rejoining after failure.
	// Declared for completeness; the heartbeat loop only flips nodes
	// between online and offline.
	StatusRecovering NodeStatus = "recovering"
)
