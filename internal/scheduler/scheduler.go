// Package scheduler drives one independent periodic refresh per category.
//
// Each category runs its own goroutine and ticker: a slow or hung fetch
// delays only that category's next tick, never another's. Every category
// performs one immediate fetch at startup so first observers do not wait a
// full interval for initial data.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/observability"
)

// Default refresh intervals, shorter for more volatile signals.
const (
	DefaultFloodInterval   = 120 * time.Second
	DefaultWeatherInterval = 300 * time.Second
	DefaultTrafficInterval = 60 * time.Second
	DefaultTransitInterval = 180 * time.Second
)

// Aggregator produces one category's snapshot. Aggregate never returns an
// error by contract; the scheduler still defends against panics.
type Aggregator interface {
	Category() domain.Category
	Aggregate(ctx context.Context) domain.CategorySnapshot
}

// Publisher receives successfully produced snapshots.
type Publisher interface {
	Publish(domain.CategorySnapshot)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPublishHook installs a callback invoked after each successful publish,
// used to trigger alerting off high-severity snapshots.
func WithPublishHook(hook func(domain.CategorySnapshot)) Option {
	return func(s *Scheduler) { s.onPublish = hook }
}

type entry struct {
	agg      Aggregator
	interval time.Duration
}

// Scheduler owns the per-category refresh loops.
type Scheduler struct {
	entries   []entry
	pub       Publisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	onPublish func(domain.CategorySnapshot)
}

// New creates a Scheduler publishing to pub.
func New(pub Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Scheduler {
	s := &Scheduler{pub: pub, clock: clock, logger: logger, metrics: metrics}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a category refresh loop with its fixed interval. Must be
// called before Run.
func (s *Scheduler) Register(agg Aggregator, interval time.Duration) {
	s.entries = append(s.entries, entry{agg: agg, interval: interval})
}

// Run executes all category loops until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.entries) == 0 {
		return errors.New("no categories registered")
	}

	var wg sync.WaitGroup
	for _, e := range s.entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runCategory(ctx, e)
		}()
	}
	wg.Wait()
	return nil
}

func (s *Scheduler) runCategory(ctx context.Context, e entry) {
	logger := s.logger.With("category", e.agg.Category(), "interval", e.interval)
	logger.Info("category schedule started")

	// Immediate first fetch, independent of interval phase.
	s.tick(ctx, e.agg)

	ticker := s.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("category schedule stopping", "reason", ctx.Err())
			return
		case <-ticker.Chan():
			s.tick(ctx, e.agg)
		}
	}
}

// tick runs one fetch-and-publish cycle. The aggregator contract makes
// failure here unlikely, but a panic must not kill the loop or evict the
// previous snapshot.
func (s *Scheduler) tick(ctx context.Context, agg Aggregator) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.PublishesSkipped.WithLabelValues(string(agg.Category())).Inc()
			s.logger.Error("tick failed, previous snapshot stays current",
				"category", agg.Category(), "error", domain.ErrPublishSkipped, "cause", r)
		}
	}()

	snapshot := agg.Aggregate(ctx)

	// A fetch that resolved after shutdown must not publish.
	if ctx.Err() != nil {
		return
	}

	s.pub.Publish(snapshot)
	if s.onPublish != nil {
		s.onPublish(snapshot)
	}
}
