package analytics

import (
	"Pulse-Backend/internal/domain"
	"Pulse-Backend/internal/repository"
	"Pulse-Backend/pkg/useragent"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// VisitJob represents a counted visit waiting for enrichment and logging.
// The counter increment already happened synchronously; losing a job loses
// only the log entry, never the count.
type VisitJob struct {
	IPAddress string
	UserAgent string
	VisitedAt time.Time
}

// Enricher resolves best-effort location data for an IP address.
type Enricher interface {
	Lookup(ctx context.Context, ip string) *domain.Location
}

// AgentParser classifies a User-Agent string into device/browser info.
type AgentParser interface {
	ParseUserAgent(userAgent string) *useragent.DeviceInfo
}

// ProcessorConfig holds configuration for the visit processor
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	RetryAttempts   int           // Number of retry attempts for failed appends
	RetryDelay      time.Duration // Base delay between retries
	ShutdownTimeout time.Duration // Time to wait for graceful shutdown
	AttemptTimeout  time.Duration // Per-attempt timeout for storage writes
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
		ShutdownTimeout: 30 * time.Second,
		AttemptTimeout:  10 * time.Second,
	}
}

// Processor handles asynchronous visit enrichment and log appends.
// Each job runs geolocation and User-Agent classification, then appends one
// immutable entry to the visit log with retry logic. Log failures never
// propagate back to the counting path.
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	enricher Enricher
	parser   AgentParser
	log      *zap.Logger
	jobQueue chan *VisitJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
}

// NewProcessor creates a new visit processor
func NewProcessor(storage repository.Storage, enricher Enricher, parser AgentParser, log *zap.Logger, config ProcessorConfig) *Processor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		enricher: enricher,
		parser:   parser,
		log:      log,
		jobQueue: make(chan *VisitJob, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing visit jobs
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}

	p.log.Info("starting visit processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
		zap.Int("retry_attempts", p.config.RetryAttempts),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop gracefully shuts down the processor
func (p *Processor) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	p.log.Info("stopping visit processor")

	p.cancel()
	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info("visit processor stopped gracefully")
	case <-time.After(p.config.ShutdownTimeout):
		p.log.Warn("visit processor shutdown timeout reached")
		return fmt.Errorf("shutdown timeout reached")
	}

	p.started = false
	return nil
}

// Submit queues a counted visit for asynchronous enrichment and logging
func (p *Processor) Submit(job *VisitJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return fmt.Errorf("processor not started")
	}

	select {
	case p.jobQueue <- job:
		p.log.Debug("visit submitted for processing", zap.String("ip", job.IPAddress))
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("processor is shutting down")
	default:
		// Queue is full; the count was already taken, only detail is lost
		p.log.Error("visit queue is full, dropping visit job",
			zap.String("ip", job.IPAddress),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		return fmt.Errorf("visit queue is full")
	}
}

// worker processes visit jobs until the queue closes
func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Info("visit worker started")

	for {
		select {
		case job := <-p.jobQueue:
			if job == nil {
				// Channel closed, worker should exit
				log.Info("visit worker stopped")
				return
			}

			p.processVisit(log, job)

		case <-p.ctx.Done():
			log.Info("visit worker received shutdown signal")
			return
		}
	}
}

// processVisit enriches a visit and appends it to the log with retries.
// Enrichment runs once per job; only the storage append is retried.
func (p *Processor) processVisit(log *zap.Logger, job *VisitJob) {
	visit := p.buildVisit(job)

	var lastErr error
	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(p.ctx, p.config.AttemptTimeout)
		err := p.storage.AppendVisit(ctx, visit)
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Info("visit append succeeded after retry",
					zap.String("visit_id", visit.ID),
					zap.Int("attempt", attempt),
				)
			}
			return
		}
		if err == repository.ErrVisitExists {
			log.Debug("visit already recorded", zap.String("visit_id", visit.ID))
			return
		}

		lastErr = err
		log.Warn("visit append failed",
			zap.String("visit_id", visit.ID),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.RetryAttempts),
			zap.Error(err),
		)

		if attempt == p.config.RetryAttempts {
			break
		}

		// Exponential backoff delay
		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))

		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			log.Info("worker shutdown during retry delay")
			return
		}
	}

	// All retries failed; the counter was already incremented, so this
	// visit exists in the count but not in the log.
	log.Error("visit append failed after all retries",
		zap.String("visit_id", visit.ID),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Error(lastErr),
	)
}

// buildVisit assembles the immutable log entry from a job. Both enrichment
// sources are best-effort: a nil location or unparseable User-Agent leaves
// the corresponding fields empty for read-time defaulting.
func (p *Processor) buildVisit(job *VisitJob) *domain.Visit {
	visit := &domain.Visit{
		VisitedAt: job.VisitedAt,
	}
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now().UTC()
	}

	if p.parser != nil && job.UserAgent != "" {
		info := p.parser.ParseUserAgent(job.UserAgent)
		visit.DeviceType = info.DeviceType
		visit.Browser = info.Browser
	}

	if job.IPAddress != "" {
		if ip := net.ParseIP(job.IPAddress); ip != nil {
			visit.IPAddress = &ip
		}
	}

	if p.enricher != nil {
		ctx, cancel := context.WithTimeout(p.ctx, p.config.AttemptTimeout)
		location := p.enricher.Lookup(ctx, job.IPAddress)
		cancel()

		if location != nil {
			visit.Country = location.Country
			visit.CountryCode = location.CountryCode
			visit.City = location.City
			visit.Region = location.Region
		}
	}

	return visit
}

// GetStats returns processor statistics
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"retry_attempts": p.config.RetryAttempts,
	}
}
