package counter

import (
	"Pulse-Backend/internal/repository"
	"context"
	"sync"

	"go.uber.org/zap"
)

// Service wraps the visitor counter storage and fans every new value out to
// live subscribers. Increments go through the storage backend's atomic
// create-or-increment primitive, so concurrent callers never lose an update.
type Service struct {
	storage repository.Storage
	log     *zap.Logger

	mu          sync.Mutex
	subscribers map[uint64]chan int64
	nextID      uint64
}

// NewService creates a counter service on top of the given storage backend.
func NewService(storage repository.Storage, log *zap.Logger) *Service {
	return &Service{
		storage:     storage,
		log:         log,
		subscribers: make(map[uint64]chan int64),
	}
}

// Increment atomically increments the shared counter and pushes the new
// value to every subscriber. The returned error is the only failure that
// changes session-level counting behavior (no dedup mark, retry next load).
func (s *Service) Increment(ctx context.Context) (int64, error) {
	count, err := s.storage.IncrementVisitorCount(ctx)
	if err != nil {
		return 0, err
	}

	s.publish(count)
	return count, nil
}

// Get returns the current counter value; 0 if no visit was ever counted.
func (s *Service) Get(ctx context.Context) (int64, error) {
	return s.storage.GetVisitorCount(ctx)
}

// Subscribe registers a live subscriber for counter changes. The returned
// channel carries every new value (conflated to the latest when the
// subscriber lags) and is closed by the unsubscribe function. Unsubscribing
// is idempotent and must be called when the consumer detaches.
func (s *Service) Subscribe() (<-chan int64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan int64, 1)
	s.subscribers[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// Subscribers returns the number of live subscribers.
func (s *Service) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// publish delivers the value to all subscribers without ever blocking the
// increment path. A subscriber that has not drained its channel gets the
// stale value replaced by the latest one.
func (s *Service) publish(count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- count:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- count:
			default:
			}
		}
	}

	s.log.Debug("published visitor count", zap.Int64("count", count), zap.Int("subscribers", len(s.subscribers)))
}
