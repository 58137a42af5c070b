package session

import (
	"context"

	"go.uber.org/zap"
)

// Gate decides whether a browsing session should be counted at all.
// A session is counted at most once; after the counter write succeeded the
// caller marks the session and later loads are ignored. When the counter
// write fails the session stays unmarked so a future page load retries —
// duplicate counts are tolerated in favor of never permanently losing a
// visitor behind a transient outage.
type Gate struct {
	state State
	log   *zap.Logger
}

// NewGate creates a dedup gate over the given session state.
func NewGate(state State, log *zap.Logger) *Gate {
	return &Gate{
		state: state,
		log:   log,
	}
}

// ShouldCount reports whether this session has not been counted yet.
// State errors fail open: double counting beats losing the visit.
func (g *Gate) ShouldCount(ctx context.Context, sessionID string) bool {
	counted, err := g.state.Get(ctx, sessionID)
	if err != nil {
		g.log.Warn("session state read failed, counting anyway",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return true
	}
	return !counted
}

// MarkCounted flags the session as counted. Call only after the counter
// write was judged successful.
func (g *Gate) MarkCounted(ctx context.Context, sessionID string) {
	if err := g.state.Set(ctx, sessionID); err != nil {
		g.log.Warn("failed to mark session as counted",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}
