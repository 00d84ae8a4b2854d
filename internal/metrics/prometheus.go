package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec

	// Replica metrics
	ReplicaFailures *prometheus.CounterVec
	QuorumFailures  *prometheus.CounterVec

	// Lease lock metrics
	LockAcquisitions *prometheus.CounterVec

	// Cluster metrics
	NodesOnline    prometheus.Gauge
	ReplicationLag prometheus.Gauge
}

// NewMetrics creates and registers Prometheus metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in production and a fresh
// registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachecluster_operations_total",
				Help: "Total number of cache operations processed",
			},
			[]string{"operation", "consistency"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cachecluster_operation_duration_seconds",
				Help:    "Duration of cache operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "consistency"},
		),

		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachecluster_operation_errors_total",
				Help: "Total number of failed cache operations",
			},
			[]string{"operation", "error_type"},
		),

		ReplicaFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachecluster_replica_failures_total",
				Help: "Total number of per-replica RPC failures",
			},
			[]string{"node_id", "operation"},
		),

		QuorumFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachecluster_quorum_failures_total",
				Help: "Total number of operations that missed quorum",
			},
			[]string{"operation"},
		),

		LockAcquisitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cachecluster_lock_acquisitions_total",
				Help: "Total number of lease lock acquisition attempts",
			},
			[]string{"status"},
		),

		NodesOnline: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cachecluster_nodes_online",
				Help: "Number of cache nodes answering heartbeats",
			},
		),

		ReplicationLag: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cachecluster_replication_lag_ms",
				Help: "Observed replication lag in milliseconds",
			},
		),
	}
}

// RecordOperation records a completed operation
func (m *Metrics) RecordOperation(operation, consistency string, duration float64) {
	m.OperationsTotal.WithLabelValues(operation, consistency).Inc()
	m.OperationDuration.WithLabelValues(operation, consistency).Observe(duration)
}

// RecordError records a failed operation
func (m *Metrics) RecordError(operation, errorType string) {
	m.OperationErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordReplicaFailure records a per-replica RPC failure
func (m *Metrics) RecordReplicaFailure(nodeID, operation string) {
	m.ReplicaFailures.WithLabelValues(nodeID, operation).Inc()
}

// RecordQuorumFailure records a missed quorum
func (m *Metrics) RecordQuorumFailure(operation string) {
	m.QuorumFailures.WithLabelValues(operation).Inc()
}

// RecordLockAcquisition records a lease lock attempt
func (m *Metrics) RecordLockAcquisition(status string) {
	m.LockAcquisitions.WithLabelValues(status).Inc()
}

// UpdateNodesOnline updates the online-node gauge
func (m *Metrics) UpdateNodesOnline(count int) {
	m.NodesOnline.Set(float64(count))
}

// UpdateReplicationLag updates the replication lag gauge
func (m *Metrics) UpdateReplicationLag(ms float64) {
	m.ReplicationLag.Set(ms)
}
