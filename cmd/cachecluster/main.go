package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/config"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/health"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/metrics"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/service"
	"github.com/RHUDHRESH/Raptorflow-sub026/internal/store"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting cache cluster client",
		zap.String("node_id", cfg.Cluster.LocalNode.NodeID),
		zap.Int("cluster_nodes", len(cfg.Cluster.ClusterNodes)+1),
		zap.String("consistency", cfg.Cluster.Consistency))

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	logStore, err := buildLogStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize replication log store", zap.Error(err))
	}

	manager, err := service.NewCacheManager(cfg, logStore, m, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache manager", zap.Error(err))
	}
	manager.Start()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			logger.Info("Starting metrics server", zap.String("address", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	healthChecker := health.NewHealthChecker(manager, logStore, logger)
	server := apiServer(cfg.Health.Port, manager, healthChecker, logger)
	go func() {
		logger.Info("Starting API server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API server shutdown failed", zap.Error(err))
	}

	manager.Shutdown()
	if err := logStore.Close(); err != nil {
		logger.Warn("Failed to close replication log store", zap.Error(err))
	}

	logger.Info("Cache cluster client stopped")
}

// buildLogger builds a zap logger per the logging configuration
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// buildLogStore selects Postgres persistence when a DSN is configured and
// the in-memory store otherwise
func buildLogStore(cfg *config.Config, logger *zap.Logger) (store.ReplicationLogStore, error) {
	if cfg.Log.PostgresDSN == "" {
		logger.Info("Using in-memory replication log store")
		return store.NewMemoryLogStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStore, err := store.NewPostgresLogStore(ctx, cfg.Log.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pgStore.EnsureSchema(ctx); err != nil {
		pgStore.Close()
		return nil, err
	}
	logger.Info("Using Postgres replication log store")
	return pgStore, nil
}

// apiServer exposes the public cache API and health probes over HTTP
func apiServer(port int, manager *service.CacheManager, hc *health.HealthChecker, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", hc.LivenessHandler)
	mux.HandleFunc("/health/ready", hc.ReadinessHandler)

	mux.HandleFunc("/cluster/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, manager.ClusterStatus())
	})

	mux.HandleFunc("/cache/get", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "key is required", http.StatusBadRequest)
			return
		}
		level := service.ConsistencyLevel(r.URL.Query().Get("level"))

		value, found := manager.Get(r.Context(), key, level)
		if !found {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
	})

	mux.HandleFunc("/cache/set", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Key        string `json:"key"`
			Value      any    `json:"value"`
			TTLSeconds int    `json:"ttl_seconds"`
			Level      string `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ok := manager.Set(r.Context(), req.Key, req.Value, req.TTLSeconds, service.ConsistencyLevel(req.Level))
		if !ok {
			http.Error(w, "write failed", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"key": req.Key, "stored": true})
	})

	mux.HandleFunc("/cache/delete", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "key is required", http.StatusBadRequest)
			return
		}
		level := service.ConsistencyLevel(r.URL.Query().Get("level"))

		ok := manager.Delete(r.Context(), key, level)
		writeJSON(w, http.StatusOK, map[string]any{"key": key, "deleted": ok})
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
