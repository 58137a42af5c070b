// Package main provides the entry point for the Pulse visitor analytics service.
//
//	@title			Pulse Visitor Analytics API
//	@version		1.0.0
//	@description	Visitor counting and analytics backend for a portfolio site: session-deduplicated counter, enriched visit log, dashboard aggregation and a live counter stream.
//
//	@contact.name	Pulse Support
//	@contact.email	support@pulse.dev
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@externalDocs.description	OpenAPI Specification
//	@externalDocs.url			https://swagger.io/resources/open-api/
package main

import (
	"Pulse-Backend/internal/analytics"
	"Pulse-Backend/internal/config"
	"Pulse-Backend/internal/counter"
	"Pulse-Backend/internal/database"
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/geo"
	httpHandler "Pulse-Backend/internal/handler/http"
	"Pulse-Backend/internal/realtime"
	"Pulse-Backend/internal/repository/postgres"
	"Pulse-Backend/internal/scheduler"
	"Pulse-Backend/internal/service"
	"Pulse-Backend/internal/session"
	"Pulse-Backend/pkg/logger"
	"Pulse-Backend/pkg/useragent"
	"context"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "Pulse-Backend/docs" // Import swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting Pulse visitor analytics service", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	// Initialize storage and enrichment helpers
	storage := postgres.New(db, log)
	uaParser := useragent.NewParser(log)
	geoClient := geo.NewClient(&cfg.Geo, log)

	// Counter service with in-process change notifications
	counterSvc := counter.NewService(storage, log)

	// Session dedup gate backed by an in-memory TTL store
	sessionState := session.NewMemoryState(cfg.Tracking.SessionTTL)
	defer sessionState.Close()
	gate := session.NewGate(sessionState, log)

	// Asynchronous visit processor: geolocation + UA classification + log append
	processor := analytics.NewProcessor(storage, geoClient, uaParser, log, analytics.DefaultConfig())
	if err := processor.Start(); err != nil {
		log.Fatal("failed to start visit processor", zap.Error(err))
	}
	defer func() {
		if err := processor.Stop(); err != nil {
			log.Error("failed to stop visit processor", zap.Error(err))
		}
	}()

	tracker := service.NewVisitTracker(gate, counterSvc, processor, log)
	views := service.NewAnalyticsView(storage, log)

	// Realtime hub pushing counter changes to websocket clients
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	hub := realtime.NewHub(log)
	go hub.Run(hubCtx)

	// Bridge counter changes into the hub
	counterUpdates, unsubscribe := counterSvc.Subscribe()
	defer unsubscribe()
	go func() {
		for count := range counterUpdates {
			hub.BroadcastCount(count)
		}
	}()

	// Refresh scheduler re-aggregating the dashboard view in the background
	refresher := scheduler.New(
		func(ctx context.Context, windowDays int) (*domain.AggregateView, error) {
			return views.Build(ctx, windowDays)
		},
		nil,
		log,
		scheduler.DefaultConfig(),
	)
	if err := refresher.Start(); err != nil {
		log.Fatal("failed to start refresh scheduler", zap.Error(err))
	}
	defer func() {
		if err := refresher.Stop(); err != nil {
			log.Error("failed to stop refresh scheduler", zap.Error(err))
		}
	}()

	// Create unified HTTP server
	httpAPIServer := httpHandler.NewServer(
		storage,
		tracker,
		views,
		refresher,
		counterSvc,
		hub,
		processor.GetStats,
		cfg,
		log,
	)

	// Setup routes
	httpMux := httpAPIServer.SetupRoutes()

	addr := fmt.Sprintf(":%d", cfg.HTTPServer.Port)
	unifiedHTTPServer := &http.Server{
		Addr:         addr,
		Handler:      httpMux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting HTTP server", zap.String("address", addr))

	// Start HTTP server in goroutine
	go func() {
		if err := unifiedHTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down Pulse service...")

	// Gracefully stop HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := unifiedHTTPServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}
