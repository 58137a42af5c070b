package session

import (
	"context"
	"sync"
	"time"
)

// State is the ephemeral "this session was already counted" capability.
// It is injected into the Gate so the backing store can be swapped (memory,
// Redis, ...) without touching counting logic. Flags live only as long as
// the browsing session and are never persisted durably.
type State interface {
	Get(ctx context.Context, sessionID string) (bool, error)
	Set(ctx context.Context, sessionID string) error
}

// MemoryState keeps session flags in process memory with an idle TTL.
// Reading a flag refreshes its expiry, approximating "for the lifetime of
// the browsing session". A janitor goroutine evicts expired entries.
type MemoryState struct {
	mu    sync.Mutex
	flags map[string]time.Time // sessionID -> expiry
	ttl   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryState creates an in-memory session state with the given idle TTL
// and starts its eviction janitor.
func NewMemoryState(ttl time.Duration) *MemoryState {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	s := &MemoryState{
		flags: make(map[string]time.Time),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go s.janitor()
	return s
}

func (s *MemoryState) Get(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.flags[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.flags, sessionID)
		return false, nil
	}

	// The session is still active, keep the flag alive.
	s.flags[sessionID] = time.Now().Add(s.ttl)
	return true, nil
}

func (s *MemoryState) Set(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[sessionID] = time.Now().Add(s.ttl)
	return nil
}

// Len returns the number of live flags.
func (s *MemoryState) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flags)
}

// Close stops the janitor goroutine. Safe to call more than once.
func (s *MemoryState) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *MemoryState) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryState) evictExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expiry := range s.flags {
		if now.After(expiry) {
			delete(s.flags, id)
		}
	}
}
