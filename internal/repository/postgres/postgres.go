package postgres

import (
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Counter Methods ---

// IncrementVisitorCount атомарно увеличивает глобальный счетчик посетителей.
// Используется один upsert: если singleton-записи еще нет, она создается со
// значением 1, иначе счетчик увеличивается. Конкурирующие "первые" посетители
// сериализуются внутри PostgreSQL, обновления не теряются.
func (s *PostgresStorage) IncrementVisitorCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO visitor_counters (id, count, updated_at)
		 VALUES (?, 1, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET count = visitor_counters.count + 1, updated_at = NOW()
		 RETURNING count`,
		domain.CounterID,
	).Scan(&count).Error
	if err != nil {
		s.log.Error("failed to increment visitor counter", zap.Error(err))
		return 0, fmt.Errorf("failed to increment visitor counter: %w", err)
	}

	s.log.Debug("incremented visitor counter", zap.Int64("count", count))
	return count, nil
}

// GetVisitorCount возвращает текущее значение счетчика посетителей.
// Если счетчик еще не создан, возвращается 0 без ошибки.
func (s *PostgresStorage) GetVisitorCount(ctx context.Context) (int64, error) {
	var counter domain.VisitorCounter

	err := s.db.WithContext(ctx).Where("id = ?", domain.CounterID).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		s.log.Error("failed to get visitor counter", zap.Error(err))
		return 0, fmt.Errorf("failed to get visitor counter: %w", err)
	}

	return counter.Count, nil
}

// --- Visit Log Methods ---

// AppendVisit добавляет запись о посещении в append-only лог.
// Запись никогда не обновляется и не удаляется этим слоем.
func (s *PostgresStorage) AppendVisit(ctx context.Context, visit *domain.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.New().String()
	}
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now().UTC()
	}

	err := s.db.WithContext(ctx).Create(visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrVisitExists
		}
		s.log.Error("failed to append visit", zap.String("visit_id", visit.ID), zap.Error(err))
		return fmt.Errorf("failed to append visit: %w", err)
	}

	s.log.Debug("appended visit",
		zap.String("visit_id", visit.ID),
		zap.String("country", visit.Country),
		zap.String("device_type", visit.DeviceType))
	return nil
}

// ListVisits возвращает полный лог посещений в порядке записи
func (s *PostgresStorage) ListVisits(ctx context.Context) ([]*domain.Visit, error) {
	var visits []*domain.Visit

	err := s.db.WithContext(ctx).Order("visited_at ASC").Find(&visits).Error
	if err != nil {
		s.log.Error("failed to list visits", zap.Error(err))
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	return visits, nil
}
