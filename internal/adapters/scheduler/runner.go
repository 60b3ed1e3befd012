// Package scheduler drives the lifecycle state machine: a ticker-paced loop
// that sweeps every event and workshop, commits due status transitions, and
// triggers roster cleanup on completion.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hackdesk/hackdesk/internal/adapters/repository"
	"github.com/hackdesk/hackdesk/internal/domain/lifecycle"
	"github.com/hackdesk/hackdesk/internal/domain/model"
	"github.com/hackdesk/hackdesk/internal/roster"
	"github.com/hackdesk/hackdesk/pkg/logger"
	"github.com/hackdesk/hackdesk/pkg/metrics"
)

const defaultInterval = time.Minute

// Store is the slice of the persistence contract the runner needs.
type Store interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListWorkshops(ctx context.Context) ([]model.Workshop, error)
	UpdateEventStatus(ctx context.Context, id string, from, to model.Status) error
	UpdateWorkshopStatus(ctx context.Context, id string, from, to model.Status) error
}

// Cleaner runs the roster cascade for one completed event.
type Cleaner interface {
	Clean(ctx context.Context, eventID string) (roster.Report, error)
}

// Summary describes one sweep.
type Summary struct {
	RunID       string
	Transitions int
	Cleanups    int
	Evicted     int
	Conflicts   int
	Failures    int
}

func (s Summary) empty() bool {
	return s.Transitions == 0 && s.Cleanups == 0 && s.Conflicts == 0 && s.Failures == 0
}

// Runner owns the sweep loop. Sweeps run serially in a single goroutine, so
// ticks never overlap even when a cleanup cascade runs long.
type Runner struct {
	store    Store
	cleaner  Cleaner
	interval time.Duration
	now      func() time.Time
	log      logger.Logger

	sweeps      atomic.Int64
	transitions atomic.Int64
	failures    atomic.Int64

	shutdown chan struct{}
	done     chan struct{}
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithInterval sets the sweep cadence.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithClock injects the time source; tests pin it.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRunner creates a Runner over store and cleaner.
func NewRunner(store Store, cleaner Cleaner, opts ...Option) *Runner {
	r := &Runner{
		store:    store,
		cleaner:  cleaner,
		interval: defaultInterval,
		now:      time.Now,
		log:      logger.Named("scheduler"),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sweeps once immediately, then on every tick until ctx is canceled or
// Shutdown is called.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)

	r.Sweep(ctx, r.now())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case <-ticker.C:
			r.Sweep(ctx, r.now())
		}
	}
}

// Shutdown stops the loop, waiting for an in-flight sweep to finish.
func (r *Runner) Shutdown(ctx context.Context) error {
	close(r.shutdown)
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.log.Warn(ctx, "scheduler shutdown timed out")
		return fmt.Errorf("scheduler shutdown: %w", ctx.Err())
	}
}

// Sweep loads all events and workshops, evaluates due transitions at now,
// and applies each inside its own error boundary: one failing item is
// logged and skipped, never blocking the rest of the sweep. The next tick
// retries naturally, because a failed item keeps its pre-transition state.
func (r *Runner) Sweep(ctx context.Context, now time.Time) Summary {
	start := time.Now()
	sum := Summary{RunID: uuid.NewString()}

	events, err := r.store.ListEvents(ctx)
	if err != nil {
		r.log.Error(ctx, "sweep: list events", logger.String("run_id", sum.RunID), logger.Error(err))
		sum.Failures++
	}
	workshops, err := r.store.ListWorkshops(ctx)
	if err != nil {
		r.log.Error(ctx, "sweep: list workshops", logger.String("run_id", sum.RunID), logger.Error(err))
		sum.Failures++
	}
	metrics.UpdateTrackedEvents(len(events))
	metrics.UpdateTrackedWorkshops(len(workshops))

	for _, tr := range lifecycle.Evaluate(events, workshops, now) {
		r.apply(ctx, tr, &sum)
	}

	r.sweeps.Add(1)
	r.transitions.Add(int64(sum.Transitions))
	r.failures.Add(int64(sum.Failures))
	metrics.RecordSweep(float64(time.Since(start).Milliseconds()))

	if !sum.empty() {
		r.log.Info(ctx, "sweep finished",
			logger.String("run_id", sum.RunID),
			logger.Int("transitions", sum.Transitions),
			logger.Int("cleanups", sum.Cleanups),
			logger.Int("evicted", sum.Evicted),
			logger.Int("conflicts", sum.Conflicts),
			logger.Int("failures", sum.Failures),
		)
	}
	return sum
}

// apply commits a single transition. Errors are absorbed here; this is the
// per-item boundary.
func (r *Runner) apply(ctx context.Context, tr lifecycle.Transition, sum *Summary) {
	if tr.Advances() {
		err := r.updateStatus(ctx, tr)
		switch {
		case errors.Is(err, repository.ErrConflict):
			// Another writer advanced it first; skip cleanup too, whoever
			// committed the transition owns its side effects.
			metrics.RecordTransitionConflict()
			sum.Conflicts++
			r.log.Debug(ctx, "transition lost status guard",
				logger.String("run_id", sum.RunID),
				logger.String("kind", string(tr.Kind)),
				logger.String("id", tr.ID),
			)
			return
		case err != nil:
			metrics.RecordTransitionError(string(tr.Kind))
			sum.Failures++
			r.log.Error(ctx, "transition failed",
				logger.String("run_id", sum.RunID),
				logger.String("kind", string(tr.Kind)),
				logger.String("id", tr.ID),
				logger.String("to", string(tr.To)),
				logger.Error(err),
			)
			return
		}
		metrics.RecordTransition(string(tr.Kind), string(tr.To))
		sum.Transitions++
		r.log.Info(ctx, "status advanced",
			logger.String("run_id", sum.RunID),
			logger.String("kind", string(tr.Kind)),
			logger.String("id", tr.ID),
			logger.String("from", string(tr.From)),
			logger.String("to", string(tr.To)),
		)
	}

	if !tr.NeedsCleanup {
		return
	}
	// Synchronous by contract: the cascade finishes (or fails) before the
	// next item is evaluated. The status write above has already committed;
	// a cleanup failure is logged and retried on a later sweep.
	rep, err := r.cleaner.Clean(ctx, tr.ID)
	if err != nil {
		sum.Failures++
		r.log.Error(ctx, "roster cleanup failed",
			logger.String("run_id", sum.RunID),
			logger.String("event_id", tr.ID),
			logger.Error(err),
		)
		return
	}
	sum.Cleanups++
	sum.Evicted += rep.Evicted
}

func (r *Runner) updateStatus(ctx context.Context, tr lifecycle.Transition) error {
	if tr.Kind == lifecycle.KindWorkshop {
		return r.store.UpdateWorkshopStatus(ctx, tr.ID, tr.From, tr.To)
	}
	return r.store.UpdateEventStatus(ctx, tr.ID, tr.From, tr.To)
}

// Stats exposes loop counters for the ops surface.
func (r *Runner) Stats() map[string]any {
	return map[string]any{
		"sweeps":      r.sweeps.Load(),
		"transitions": r.transitions.Load(),
		"failures":    r.failures.Load(),
		"interval":    r.interval.String(),
	}
}
