package http

import (
	"Pulse-Backend/internal/config"
	"Pulse-Backend/internal/counter"
	"Pulse-Backend/internal/realtime"
	"Pulse-Backend/internal/repository"
	"Pulse-Backend/internal/scheduler"
	"Pulse-Backend/internal/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server HTTP сервер с обработчиками
type Server struct {
	visitsHandler    *VisitsHandler
	analyticsHandler *AnalyticsHandler
	websocketHandler *WebSocketHandler
	healthHandler    *HealthHandler
	allowedOrigin    string
	log              *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(
	storage repository.Storage,
	tracker *service.VisitTracker,
	views *service.AnalyticsView,
	refresher *scheduler.Scheduler,
	counterSvc *counter.Service,
	hub *realtime.Hub,
	processorStats func() map[string]interface{},
	cfg *config.Config,
	log *zap.Logger,
) *Server {
	// Создаем handlers
	visitsHandler := NewVisitsHandler(tracker, log)
	analyticsHandler := NewAnalyticsHandler(views, refresher, log)
	websocketHandler := NewWebSocketHandler(hub, counterSvc, log)
	healthHandler := NewHealthHandler(storage, hub, processorStats, log)

	return &Server{
		visitsHandler:    visitsHandler,
		analyticsHandler: analyticsHandler,
		websocketHandler: websocketHandler,
		healthHandler:    healthHandler,
		allowedOrigin:    cfg.HTTPServer.AllowedOrigin,
		log:              log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)
	mux.HandleFunc("/metrics", s.healthHandler.Metrics)

	// Swagger документация
	mux.Handle("/api/v1/", httpSwagger.WrapHandler)

	// Учет посещений
	mux.HandleFunc("/api/visits", s.withCORS(s.visitsHandler.TrackVisit))
	mux.HandleFunc("/api/visitors/count", s.withCORS(s.visitsHandler.GetCount))

	// Аналитика для дашборда
	mux.HandleFunc("/api/analytics", s.withCORS(s.analyticsHandler.GetAnalytics))
	mux.HandleFunc("/api/analytics/refresh", s.withCORS(s.analyticsHandler.HandleRefreshAPI))
	mux.HandleFunc("/api/analytics/refresh/toggle", s.withCORS(s.analyticsHandler.ToggleRefresh))

	// Live-поток счетчика (CORS проверяется на upgrade через Origin)
	mux.HandleFunc("/ws/visitors", s.websocketHandler.LiveCount)

	return mux
}

// withCORS добавляет CORS headers к обработчику
func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && (s.allowedOrigin == "*" || origin == s.allowedOrigin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Обработка preflight OPTIONS запросов
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
