package client

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

// Pool holds one NodeClient per cluster node, keyed by node ID
type Pool struct {
	clients map[string]NodeClient
	opts    RedisOptions
	logger  *zap.Logger
	mu      sync.RWMutex
}

// NewPool creates an empty connection pool
func NewPool(opts RedisOptions, logger *zap.Logger) *Pool {
	return &Pool{
		clients: make(map[string]NodeClient),
		opts:    opts,
		logger:  logger,
	}
}

// Connect creates and registers a client for the given node. An existing
// client for the same node ID is reused.
func (p *Pool) Connect(node *model.ClusterNode) NodeClient {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[node.NodeID]; exists {
		return c
	}

	c := NewRedisNodeClient(node, p.opts, p.logger)
	p.clients[node.NodeID] = c

	p.logger.Info("Opened connection to cache node",
		zap.String("node_id", node.NodeID),
		zap.String("addr", node.Addr()))

	return c
}

// Get returns the client for a node ID
func (p *Pool) Get(nodeID string) (NodeClient, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	c, exists := p.clients[nodeID]
	if !exists {
		return nil, fmt.Errorf("no connection for node %s", nodeID)
	}
	return c, nil
}

// Put registers a prebuilt client, replacing any existing one for the same
// node ID. Tests use this to inject fakes.
func (p *Pool) Put(nodeID string, c NodeClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clients[nodeID] = c
}

// Remove drops and closes the client for a node ID
func (p *Pool) Remove(nodeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[nodeID]; exists {
		if err := c.Close(); err != nil {
			p.logger.Warn("Failed to close node connection",
				zap.String("node_id", nodeID),
				zap.Error(err))
		}
		delete(p.clients, nodeID)
	}
}

// Close closes every connection in the pool
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for nodeID, c := range p.clients {
		if err := c.Close(); err != nil {
			p.logger.Warn("Failed to close node connection",
				zap.String("node_id", nodeID),
				zap.Error(err))
		}
	}
	p.clients = make(map[string]NodeClient)
}
