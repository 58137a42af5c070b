package memory

import (
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/repository"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStorage хранит счетчик и лог посещений в памяти процесса.
// Используется в тестах и для локального запуска без базы данных.
type MemStorage struct {
	mu      sync.RWMutex
	count   int64
	created bool
	visits  []*domain.Visit
	byID    map[string]struct{}
}

func New() *MemStorage {
	return &MemStorage{
		byID: make(map[string]struct{}),
	}
}

// --- Counter Methods ---

// IncrementVisitorCount создает счетчик со значением 1 либо увеличивает
// существующий. Мьютекс удерживается на весь шаг create-or-increment.
func (s *MemStorage) IncrementVisitorCount(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		s.created = true
		s.count = 1
		return s.count, nil
	}

	s.count++
	return s.count, nil
}

func (s *MemStorage) GetVisitorCount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

// --- Visit Log Methods ---

func (s *MemStorage) AppendVisit(_ context.Context, visit *domain.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now().UTC()
	}

	if _, exists := s.byID[visit.ID]; exists {
		return repository.ErrVisitExists
	}

	stored := *visit
	s.byID[visit.ID] = struct{}{}
	s.visits = append(s.visits, &stored)
	return nil
}

func (s *MemStorage) ListVisits(_ context.Context) ([]*domain.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visits := make([]*domain.Visit, len(s.visits))
	copy(visits, s.visits)
	return visits, nil
}
