// Package app wires the lifecycle core together behind a single service
// facade used by main and the ops surface.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/adapters/scheduler"
	"github.com/hackdesk/hackdesk/internal/roster"
	"github.com/hackdesk/hackdesk/pkg/logger"
)

const (
	defaultSweepInterval  = time.Minute
	defaultCleanupTimeout = 30 * time.Second
)

// Service owns the store, the roster cleaner and the scheduler runner.
type Service struct {
	mu sync.Mutex

	store          repository.Store
	cleaner        *roster.Cleaner
	runner         *scheduler.Runner
	sweepInterval  time.Duration
	cleanupTimeout time.Duration
	log            logger.Logger

	started bool
	cancel  context.CancelFunc
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSweepInterval sets the scheduler cadence.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithCleanupTimeout bounds each event's cleanup cascade.
func WithCleanupTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cleanupTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Service with the provided options.
func New(opts ...Option) *Service {
	s := &Service{
		sweepInterval:  defaultSweepInterval,
		cleanupTimeout: defaultCleanupTimeout,
		log:            logger.Named("app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemory()
	}
	return s
}

// Start builds the cleaner and runner and launches the sweep loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("service already started")
	}

	s.cleaner = roster.NewCleaner(s.store, roster.WithTimeout(s.cleanupTimeout))
	s.runner = scheduler.NewRunner(s.store, s.cleaner, scheduler.WithInterval(s.sweepInterval))

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.runner.Run(runCtx)

	s.started = true
	s.log.Info(ctx, "service started", logger.Duration("sweep_interval", s.sweepInterval))
	return nil
}

// Stop cancels the sweep loop and waits briefly for it to drain.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.runner.Shutdown(ctx); err != nil {
		s.log.Warn(ctx, "runner did not drain in time", logger.Error(err))
	}
	s.started = false
	s.log.Info(ctx, "service stopped")
}

// SweepNow runs one synchronous sweep at the current instant; tests and
// operational tooling use it to avoid waiting out the cadence.
func (s *Service) SweepNow(ctx context.Context) scheduler.Summary {
	s.mu.Lock()
	runner := s.runner
	s.mu.Unlock()
	if runner == nil {
		runner = scheduler.NewRunner(s.store, roster.NewCleaner(s.store, roster.WithTimeout(s.cleanupTimeout)))
	}
	return runner.Sweep(ctx, time.Now())
}

// GetStats reports service state for the ops surface.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := map[string]any{
		"started":         s.started,
		"sweep_interval":  s.sweepInterval.String(),
		"cleanup_timeout": s.cleanupTimeout.String(),
	}
	if s.runner != nil {
		for k, v := range s.runner.Stats() {
			stats[k] = v
		}
	}
	return stats
}
