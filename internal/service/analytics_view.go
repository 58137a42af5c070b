package service

import (
	"Pulse-Backend/internal/analytics"
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/repository"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AnalyticsView builds aggregate views on demand: a full visit log read fed
// into the pure aggregation engine. Used by both the dashboard HTTP
// endpoint and the refresh scheduler.
type AnalyticsView struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewAnalyticsView creates the analytics view service.
func NewAnalyticsView(storage repository.Storage, log *zap.Logger) *AnalyticsView {
	return &AnalyticsView{
		storage: storage,
		log:     log,
	}
}

// Build reads the full visit log and aggregates it over the given window.
func (s *AnalyticsView) Build(ctx context.Context, windowDays int) (*domain.AggregateView, error) {
	visits, err := s.storage.ListVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load visit log: %w", err)
	}

	view := analytics.Aggregate(visits, windowDays, time.Now())

	s.log.Debug("built aggregate view",
		zap.Int("window_days", windowDays),
		zap.Int("entries", len(visits)))

	return view, nil
}
