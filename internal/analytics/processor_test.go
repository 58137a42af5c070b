package analytics

import (
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/repository/memory"
	"Pulse-Backend/pkg/useragent"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEnricher struct {
	location *domain.Location
}

func (s *stubEnricher) Lookup(_ context.Context, _ string) *domain.Location {
	return s.location
}

type stubParser struct {
	info useragent.DeviceInfo
}

func (s *stubParser) ParseUserAgent(_ string) *useragent.DeviceInfo {
	info := s.info
	return &info
}

func testConfig() ProcessorConfig {
	cfg := DefaultConfig()
	cfg.RetryDelay = 5 * time.Millisecond
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestProcessor_EnrichesAndAppendsVisit(t *testing.T) {
	storage := memory.New()
	enricher := &stubEnricher{location: &domain.Location{
		Country:     "Germany",
		CountryCode: "DE",
		City:        "Berlin",
		Region:      "Berlin",
		IP:          "203.0.113.7",
	}}
	parser := &stubParser{info: useragent.DeviceInfo{DeviceType: "Mobile", Browser: "Firefox"}}

	p := NewProcessor(storage, enricher, parser, zap.NewNop(), testConfig())
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	require.NoError(t, p.Submit(&VisitJob{
		IPAddress: "203.0.113.7",
		UserAgent: "some-agent",
		VisitedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}))

	require.Eventually(t, func() bool {
		visits, err := storage.ListVisits(context.Background())
		return err == nil && len(visits) == 1
	}, 2*time.Second, 10*time.Millisecond)

	visits, err := storage.ListVisits(context.Background())
	require.NoError(t, err)
	visit := visits[0]
	assert.NotEmpty(t, visit.ID)
	assert.Equal(t, "Germany", visit.Country)
	assert.Equal(t, "DE", visit.CountryCode)
	assert.Equal(t, "Berlin", visit.City)
	assert.Equal(t, "Mobile", visit.DeviceType)
	assert.Equal(t, "Firefox", visit.Browser)
	require.NotNil(t, visit.IPAddress)
	assert.Equal(t, "203.0.113.7", visit.IPAddress.String())
}

func TestProcessor_EnrichmentFailureLeavesFieldsEmpty(t *testing.T) {
	storage := memory.New()
	p := NewProcessor(storage, &stubEnricher{location: nil}, &stubParser{info: useragent.DeviceInfo{DeviceType: "Desktop", Browser: "Chrome"}}, zap.NewNop(), testConfig())
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	require.NoError(t, p.Submit(&VisitJob{IPAddress: "203.0.113.7", UserAgent: "agent"}))

	require.Eventually(t, func() bool {
		visits, _ := storage.ListVisits(context.Background())
		return len(visits) == 1
	}, 2*time.Second, 10*time.Millisecond)

	visits, _ := storage.ListVisits(context.Background())
	visit := visits[0]
	assert.Empty(t, visit.Country, "write-time defaulting is forbidden")
	assert.Empty(t, visit.CountryCode)
	assert.Equal(t, "Desktop", visit.DeviceType)
	assert.False(t, visit.VisitedAt.IsZero())
}

// flakyStorage fails the first appends, then delegates to the real backend.
type flakyStorage struct {
	*memory.MemStorage
	mu       sync.Mutex
	failures int
}

func (s *flakyStorage) AppendVisit(ctx context.Context, visit *domain.Visit) error {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return errors.New("transient storage failure")
	}
	s.mu.Unlock()
	return s.MemStorage.AppendVisit(ctx, visit)
}

func TestProcessor_RetriesFailedAppends(t *testing.T) {
	storage := &flakyStorage{MemStorage: memory.New(), failures: 2}
	p := NewProcessor(storage, &stubEnricher{}, &stubParser{}, zap.NewNop(), testConfig())
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	require.NoError(t, p.Submit(&VisitJob{IPAddress: "203.0.113.7"}))

	require.Eventually(t, func() bool {
		visits, _ := storage.ListVisits(context.Background())
		return len(visits) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcessor_SubmitRequiresStart(t *testing.T) {
	p := NewProcessor(memory.New(), &stubEnricher{}, &stubParser{}, zap.NewNop(), testConfig())

	assert.Error(t, p.Submit(&VisitJob{}))
}

func TestProcessor_QueueFullDropsJob(t *testing.T) {
	cfg := testConfig()
	cfg.WorkerCount = 0 // nothing drains the queue
	cfg.BufferSize = 1

	p := NewProcessor(memory.New(), &stubEnricher{}, &stubParser{}, zap.NewNop(), cfg)
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	assert.NoError(t, p.Submit(&VisitJob{}))
	assert.Error(t, p.Submit(&VisitJob{}), "a full queue must reject, not block")
}

func TestProcessor_StartStopLifecycle(t *testing.T) {
	p := NewProcessor(memory.New(), &stubEnricher{}, &stubParser{}, zap.NewNop(), testConfig())

	require.NoError(t, p.Start())
	assert.Error(t, p.Start(), "double start must fail")

	require.NoError(t, p.Stop())
	assert.Error(t, p.Stop(), "double stop must fail")

	stats := p.GetStats()
	assert.Equal(t, false, stats["started"])
}
