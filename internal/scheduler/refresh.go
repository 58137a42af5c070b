package scheduler

import (
	"Pulse-Backend/internal/domain"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State identifies the refresh state machine's current state.
type State string

const (
	StateAuto     State = "auto"
	StateManual   State = "manual"
	StateFetching State = "fetching"
)

// FetchFunc performs one dashboard refresh: a full visit log read followed
// by aggregation over the requested window.
type FetchFunc func(ctx context.Context, windowDays int) (*domain.AggregateView, error)

// ResultFunc receives each successfully fetched view.
type ResultFunc func(view *domain.AggregateView)

// Config holds refresh scheduler configuration
type Config struct {
	Countdown    int           // Seconds between automatic refreshes
	TickInterval time.Duration // Cooperative tick period
	FetchTimeout time.Duration // Per-refresh timeout
	WindowDays   int           // Initial aggregation window
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Countdown:    30,
		TickInterval: time.Second,
		FetchTimeout: 30 * time.Second,
		WindowDays:   7,
	}
}

// Scheduler drives periodic and manual re-aggregation for a dashboard
// consumer. In Auto mode a 1-second tick counts down from Countdown and
// triggers a fetch at zero; Manual mode only fetches on explicit request.
// A tick firing while a fetch is in flight is ignored, so at most one
// fetch runs at a time.
type Scheduler struct {
	fetch    FetchFunc
	onResult ResultFunc
	config   Config
	log      *zap.Logger

	mu         sync.Mutex
	state      State
	countdown  int
	windowDays int
	returnAuto bool // mode to restore once the in-flight fetch completes

	stop    chan struct{}
	started bool
}

// New creates a refresh scheduler. onResult may be nil when the caller only
// wants the side effects of fetching.
func New(fetch FetchFunc, onResult ResultFunc, log *zap.Logger, config Config) *Scheduler {
	if config.WindowDays <= 0 {
		config.WindowDays = 7
	}

	return &Scheduler{
		fetch:      fetch,
		onResult:   onResult,
		config:     config,
		log:        log,
		state:      StateAuto,
		countdown:  config.Countdown,
		windowDays: config.WindowDays,
		stop:       make(chan struct{}),
	}
}

// Start launches the cooperative tick loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.started = true

	go s.run()

	s.log.Info("refresh scheduler started",
		zap.Int("countdown", s.config.Countdown),
		zap.Int("window_days", s.windowDays))
	return nil
}

// Stop terminates the tick loop. An in-flight fetch finishes on its own.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return fmt.Errorf("scheduler not started")
	}
	s.started = false

	close(s.stop)
	s.log.Info("refresh scheduler stopped")
	return nil
}

// State returns the current state and, for Auto, the countdown value.
func (s *Scheduler) State() (State, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.countdown
}

// SetWindow changes the aggregation window for subsequent refreshes.
func (s *Scheduler) SetWindow(days int) {
	if days <= 0 {
		return
	}
	s.mu.Lock()
	s.windowDays = days
	s.mu.Unlock()
}

// Toggle switches between Auto and Manual with no other side effects.
// While a fetch is in flight it flips the mode the machine returns to.
func (s *Scheduler) Toggle() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAuto:
		s.state = StateManual
	case StateManual:
		s.state = StateAuto
		s.countdown = s.config.Countdown
	case StateFetching:
		s.returnAuto = !s.returnAuto
	}

	s.log.Debug("refresh mode toggled", zap.String("state", string(s.state)))
	return s.state
}

// RefreshNow triggers an immediate fetch from any state. A refresh
// requested while one is already running is ignored; on completion the
// machine returns to whatever mode was active before the trigger.
func (s *Scheduler) RefreshNow() {
	s.mu.Lock()
	if s.state == StateFetching {
		s.mu.Unlock()
		return
	}

	s.returnAuto = s.state == StateAuto
	s.state = StateFetching
	window := s.windowDays
	s.mu.Unlock()

	go s.doFetch(window)
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.onTick()
		case <-s.stop:
			return
		}
	}
}

// onTick decrements the Auto countdown and starts a fetch at zero.
// Ticks in Manual mode or while Fetching are ignored.
func (s *Scheduler) onTick() {
	s.mu.Lock()
	if s.state != StateAuto {
		s.mu.Unlock()
		return
	}

	s.countdown--
	if s.countdown > 0 {
		s.mu.Unlock()
		return
	}

	s.countdown = 0
	s.returnAuto = true
	s.state = StateFetching
	window := s.windowDays
	s.mu.Unlock()

	go s.doFetch(window)
}

func (s *Scheduler) doFetch(windowDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.FetchTimeout)
	view, err := s.fetch(ctx, windowDays)
	cancel()

	if err != nil {
		s.log.Error("dashboard refresh failed", zap.Int("window_days", windowDays), zap.Error(err))
	} else if s.onResult != nil {
		s.onResult(view)
	}

	s.mu.Lock()
	if s.returnAuto {
		s.state = StateAuto
		s.countdown = s.config.Countdown
	} else {
		s.state = StateManual
	}
	s.mu.Unlock()
}
