package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/store"
)

// StatusProvider reports cluster membership health
type StatusProvider interface {
	ClusterStatus() model.ClusterStatus
}

// HealthChecker provides health check endpoints
type HealthChecker struct {
	status   StatusProvider
	logStore store.ReplicationLogStore
	logger   *zap.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(status StatusProvider, logStore store.ReplicationLogStore, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		status:   status,
		logStore: logStore,
		logger:   logger,
	}
}

// LivenessHandler handles liveness probe requests
func (h *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// ReadinessHandler handles readiness probe requests. Ready means at least
// one cache node is online and the replication log store answers.
func (h *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	cluster := h.status.ClusterStatus()
	if cluster.OnlineNodes == 0 {
		checks["cluster"] = "unhealthy: no online nodes"
		allHealthy = false
	} else {
		checks["cluster"] = "healthy"
	}

	if err := h.logStore.Ping(ctx); err != nil {
		h.logger.Error("Replication log store health check failed", zap.Error(err))
		checks["log_store"] = "unhealthy: " + err.Error()
		allHealthy = false
	} else {
		checks["log_store"] = "healthy"
	}

	status := HealthStatus{
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	}

	if allHealthy {
		status.Status = "ready"
		writeStatus(w, http.StatusOK, status)
		return
	}
	status.Status = "not_ready"
	writeStatus(w, http.StatusServiceUnavailable, status)
}

func writeStatus(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
