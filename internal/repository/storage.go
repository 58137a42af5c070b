package repository

import (
	"Pulse-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrCounterUnavailable = errors.New("visitor counter unavailable")
	ErrVisitExists        = errors.New("visit already recorded")
)

type Storage interface {
	// Counter methods
	IncrementVisitorCount(ctx context.Context) (int64, error)
	GetVisitorCount(ctx context.Context) (int64, error)

	// Visit log methods (append-only)
	AppendVisit(ctx context.Context, visit *domain.Visit) error
	ListVisits(ctx context.Context) ([]*domain.Visit, error)
}
