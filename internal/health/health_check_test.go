package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/store"
)

type stubStatus struct {
	online int
}

func (s stubStatus) ClusterStatus() model.ClusterStatus {
	return model.ClusterStatus{TotalNodes: 3, OnlineNodes: s.online}
}

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(stubStatus{online: 3}, store.NewMemoryLogStore(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "alive", status.Status)
}

func TestReadinessHandlerReady(t *testing.T) {
	h := NewHealthChecker(stubStatus{online: 2}, store.NewMemoryLogStore(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ready", status.Status)
	assert.Equal(t, "healthy", status.Checks["cluster"])
	assert.Equal(t, "healthy", status.Checks["log_store"])
}

func TestReadinessHandlerNoOnlineNodes(t *testing.T) {
	h := NewHealthChecker(stubStatus{online: 0}, store.NewMemoryLogStore(), zap.NewNop())

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var status HealthStatus
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "not_ready", status.Status)
}
