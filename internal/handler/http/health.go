package http

import (
	"Pulse-Backend/internal/realtime"
	"Pulse-Backend/internal/repository"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler обработчик health checks
type HealthHandler struct {
	storage repository.Storage
	hub     *realtime.Hub
	stats   func() map[string]interface{}
	log     *zap.Logger
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(storage repository.Storage, hub *realtime.Hub, stats func() map[string]interface{}, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		hub:     hub,
		stats:   stats,
		log:     log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health основной health check endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Чтение счетчика как проба доступности базы данных
	dbStatus := "healthy"
	if _, err := h.storage.GetVisitorCount(ctx); err != nil {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status:         status,
		Timestamp:      time.Now(),
		Version:        "1.0.0",
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	})
}

// Ready readiness probe endpoint
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// Metrics простой endpoint с метриками процесса
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds":    time.Since(startTime).Seconds(),
		"timestamp":         time.Now(),
		"websocket_clients": h.hub.ClientCount(),
	}
	if h.stats != nil {
		metrics["visit_processor"] = h.stats()
	}

	writeJSON(w, http.StatusOK, metrics)
}
