package service

import (
	"Pulse-Backend/internal/analytics"
	"Pulse-Backend/internal/counter"
	"Pulse-Backend/internal/repository/memory"
	"Pulse-Backend/internal/session"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSubmitter struct {
	jobs []*analytics.VisitJob
	err  error
}

func (r *recordingSubmitter) Submit(job *analytics.VisitJob) error {
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, job)
	return nil
}

func newTracker(t *testing.T, submitter Submitter) *VisitTracker {
	t.Helper()
	state := session.NewMemoryState(time.Minute)
	t.Cleanup(state.Close)

	return NewVisitTracker(
		session.NewGate(state, zap.NewNop()),
		counter.NewService(memory.New(), zap.NewNop()),
		submitter,
		zap.NewNop(),
	)
}

func TestTrack_FirstVisitIsCounted(t *testing.T) {
	submitter := &recordingSubmitter{}
	tracker := newTracker(t, submitter)

	result, err := tracker.Track(context.Background(), "session-1", "203.0.113.7", "agent")
	require.NoError(t, err)

	assert.True(t, result.Counted)
	assert.Equal(t, int64(1), result.Count)
	require.Len(t, submitter.jobs, 1)
	assert.Equal(t, "203.0.113.7", submitter.jobs[0].IPAddress)
	assert.Equal(t, "agent", submitter.jobs[0].UserAgent)
}

func TestTrack_SecondLoadSameSessionNotCounted(t *testing.T) {
	submitter := &recordingSubmitter{}
	tracker := newTracker(t, submitter)
	ctx := context.Background()

	_, err := tracker.Track(ctx, "session-1", "203.0.113.7", "agent")
	require.NoError(t, err)

	result, err := tracker.Track(ctx, "session-1", "203.0.113.7", "agent")
	require.NoError(t, err)

	assert.False(t, result.Counted)
	assert.Equal(t, int64(1), result.Count, "reload reports the current count without incrementing")
	assert.Len(t, submitter.jobs, 1, "no second log entry for the same session")
}

func TestTrack_DistinctSessionsEachCounted(t *testing.T) {
	tracker := newTracker(t, &recordingSubmitter{})
	ctx := context.Background()

	for i, sessionID := range []string{"a", "b", "c"} {
		result, err := tracker.Track(ctx, sessionID, "203.0.113.7", "agent")
		require.NoError(t, err)
		assert.True(t, result.Counted)
		assert.Equal(t, int64(i+1), result.Count)
	}
}

// brokenCounterStorage simulates an unavailable counter backend.
type brokenCounterStorage struct {
	*memory.MemStorage
}

func (brokenCounterStorage) IncrementVisitorCount(context.Context) (int64, error) {
	return 0, errors.New("counter backend down")
}

func TestTrack_CounterFailureLeavesSessionEligible(t *testing.T) {
	state := session.NewMemoryState(time.Minute)
	defer state.Close()
	gate := session.NewGate(state, zap.NewNop())

	broken := counter.NewService(brokenCounterStorage{memory.New()}, zap.NewNop())
	tracker := NewVisitTracker(gate, broken, &recordingSubmitter{}, zap.NewNop())
	ctx := context.Background()

	_, err := tracker.Track(ctx, "session-1", "203.0.113.7", "agent")
	require.Error(t, err)

	assert.True(t, gate.ShouldCount(ctx, "session-1"),
		"a failed counter write must not mark the session")
}

func TestTrack_SubmitFailureDoesNotAffectCount(t *testing.T) {
	submitter := &recordingSubmitter{err: errors.New("queue full")}
	tracker := newTracker(t, submitter)

	result, err := tracker.Track(context.Background(), "session-1", "203.0.113.7", "agent")
	require.NoError(t, err, "log write failure is independent of the counter outcome")
	assert.True(t, result.Counted)
	assert.Equal(t, int64(1), result.Count)
}
