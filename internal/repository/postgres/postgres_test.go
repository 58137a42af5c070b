package postgres

import (
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupStorage starts a disposable PostgreSQL container, migrates the schema
// and returns a ready storage. Skipped in -short mode.
func setupStorage(t *testing.T) *PostgresStorage {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15-alpine"),
		pgcontainer.WithDatabase("pulse_test"),
		pgcontainer.WithUsername("postgres"),
		pgcontainer.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.VisitorCounter{}, &domain.Visit{}))

	return New(db, zap.NewNop())
}

func TestIncrementVisitorCount_FirstVisitCreatesCounter(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	count, err := storage.IncrementVisitorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIncrementVisitorCount_ConcurrentIncrementsAllLand(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := storage.IncrementVisitorCount(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent increment failed: %v", err)
	}

	count, err := storage.GetVisitorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), count, "every concurrent increment must land exactly once")
}

func TestGetVisitorCount_MissingCounterReturnsZero(t *testing.T) {
	storage := setupStorage(t)

	count, err := storage.GetVisitorCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAppendVisit_DuplicateIDRejected(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	visit := &domain.Visit{
		ID:        "11111111-1111-1111-1111-111111111111",
		Country:   "Japan",
		VisitedAt: time.Now().UTC(),
	}
	require.NoError(t, storage.AppendVisit(ctx, visit))

	dup := &domain.Visit{
		ID:        visit.ID,
		Country:   "France",
		VisitedAt: time.Now().UTC(),
	}
	err := storage.AppendVisit(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrVisitExists)
}

func TestListVisits_OrderedByVisitedAt(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		require.NoError(t, storage.AppendVisit(ctx, &domain.Visit{
			VisitedAt: base.Add(offset),
		}))
	}

	visits, err := storage.ListVisits(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 3)

	for i := 1; i < len(visits); i++ {
		assert.False(t, visits[i].VisitedAt.Before(visits[i-1].VisitedAt),
			"visits must be ordered oldest first")
	}
}
