package service

import (
	"Pulse-Backend/internal/analytics"
	"Pulse-Backend/internal/counter"
	"Pulse-Backend/internal/session"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Submitter queues a counted visit for asynchronous enrichment and logging.
type Submitter interface {
	Submit(job *analytics.VisitJob) error
}

// TrackResult describes the outcome of one tracking request.
type TrackResult struct {
	Counted bool  // whether this request incremented the counter
	Count   int64 // counter value after the request
}

// VisitTracker runs the counted-visit flow: dedup gate, synchronous atomic
// counter increment, then asynchronous log enrichment. The counter write is
// the only step whose failure reaches the caller; the session stays
// unmarked in that case so a later page load retries.
type VisitTracker struct {
	gate      *session.Gate
	counter   *counter.Service
	processor Submitter
	log       *zap.Logger
}

// NewVisitTracker creates the visit tracking service.
func NewVisitTracker(gate *session.Gate, counterSvc *counter.Service, processor Submitter, log *zap.Logger) *VisitTracker {
	return &VisitTracker{
		gate:      gate,
		counter:   counterSvc,
		processor: processor,
		log:       log,
	}
}

// Count returns the current visitor counter value.
func (t *VisitTracker) Count(ctx context.Context) (int64, error) {
	return t.counter.Get(ctx)
}

// Track processes one page load for the given browsing session.
func (t *VisitTracker) Track(ctx context.Context, sessionID, ipAddress, userAgent string) (*TrackResult, error) {
	if !t.gate.ShouldCount(ctx, sessionID) {
		count, err := t.counter.Get(ctx)
		if err != nil {
			t.log.Warn("failed to read counter for already-counted session", zap.Error(err))
			count = 0
		}
		return &TrackResult{Counted: false, Count: count}, nil
	}

	count, err := t.counter.Increment(ctx)
	if err != nil {
		// The session is deliberately not marked: the next load retries.
		return nil, fmt.Errorf("failed to count visit: %w", err)
	}

	t.gate.MarkCounted(ctx, sessionID)

	// The log append is independent of the counter outcome; a queue
	// failure costs enrichment detail, never the count.
	if err := t.processor.Submit(&analytics.VisitJob{
		IPAddress: ipAddress,
		UserAgent: userAgent,
		VisitedAt: time.Now().UTC(),
	}); err != nil {
		t.log.Warn("failed to queue visit for logging", zap.Error(err))
	}

	t.log.Info("counted visit",
		zap.Int64("count", count),
		zap.String("session_id", sessionID))

	return &TrackResult{Counted: true, Count: count}, nil
}
