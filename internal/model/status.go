package model

// OperationStats holds the in-process operation counters exposed by
// ClusterStatus. ReplicationLagMs and ConsistencyViolations are reserved
// gauges: nothing measures them yet, they always report their last value.
type OperationStats struct {
	TotalOperations       int64   `json:"total_operations"`
	SuccessfulOperations  int64   `json:"successful_operations"`
	FailedOperations      int64   `json:"failed_operations"`
	ReplicationLagMs      float64 `json:"replication_lag_ms"`
	ConsistencyViolations int64   `json:"consistency_violations"`
}

// ClusterStatus is a point-in-time snapshot of cluster health
type ClusterStatus struct {
	TotalNodes        int            `json:"total_nodes"`
	OnlineNodes       int            `json:"online_nodes"`
	LocalNode         string         `json:"local_node"`
	Nodes             []*ClusterNode `json:"nodes"`
	ReplicationFactor int            `json:"replication_factor"`
	ConsistencyLevel  string         `json:"consistency_level"`
	Stats             OperationStats `json:"stats"`
}
