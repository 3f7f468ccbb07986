// Package aggregate reconciles the providers of each category into one
// coherent snapshot.
//
// Aggregation never fails: every provider that errors or is unconfigured is
// substituted with synthetic fallback data, so the caller always receives a
// fully populated snapshot. Provider failures are logged and counted here
// and go no further.
package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/fallback"
	"github.com/riserlabs/hazard-feed/internal/observability"
	"github.com/riserlabs/hazard-feed/internal/scoring"
)

// FloodSource is one upstream flood feed.
type FloodSource interface {
	Source() string
	Fetch(ctx context.Context) ([]domain.RiskObservation, error)
}

// WeatherSource is the current-conditions feed.
type WeatherSource interface {
	Source() string
	Fetch(ctx context.Context) (domain.WeatherReport, error)
}

// TrafficSource is the highway status feed.
type TrafficSource interface {
	Source() string
	Fetch(ctx context.Context) ([]domain.HighwayStatus, error)
}

// TransitSource is the rail/bus status feed.
type TransitSource interface {
	Source() string
	Fetch(ctx context.Context) (domain.TransitStatus, error)
}

// FloodAggregator fans out to every registered flood source concurrently and
// merges the results in registration order.
type FloodAggregator struct {
	sources []FloodSource
	fb      *fallback.Generator
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFlood creates the flood aggregator over the given sources.
func NewFlood(sources []FloodSource, fb *fallback.Generator, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *FloodAggregator {
	return &FloodAggregator{sources: sources, fb: fb, clock: clock, logger: logger, metrics: metrics}
}

func (a *FloodAggregator) Category() domain.Category { return domain.CategoryFlood }

// Aggregate fetches all sources concurrently and merges them into one
// snapshot. One slow or failing source never blocks the others beyond the
// fan-in wait.
func (a *FloodAggregator) Aggregate(ctx context.Context) domain.CategorySnapshot {
	defer a.observeDuration(domain.CategoryFlood, time.Now())

	results := make([][]domain.RiskObservation, len(a.sources))
	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.fetchOne(ctx, src)
		}()
	}
	wg.Wait()

	var merged []domain.RiskObservation
	sources := make([]string, 0, len(a.sources))
	for i, src := range a.sources {
		merged = append(merged, results[i]...)
		sources = append(sources, src.Source())
	}

	summary := scoring.Summarize(merged)
	return domain.CategorySnapshot{
		Category:      domain.CategoryFlood,
		Observations:  merged,
		Summary:       &summary,
		ActiveSources: sources,
		LastUpdated:   a.clock.Now(),
	}
}

func (a *FloodAggregator) fetchOne(ctx context.Context, src FloodSource) []domain.RiskObservation {
	fetchStart := time.Now()
	obs, err := src.Fetch(ctx)
	a.metrics.ProviderLatency.WithLabelValues(src.Source()).Observe(time.Since(fetchStart).Seconds())
	if err == nil {
		a.metrics.ProviderFetches.WithLabelValues(src.Source(), "success").Inc()
		return obs
	}

	logFetchFailure(a.logger, a.metrics, src.Source(), domain.CategoryFlood, err)
	return a.fb.Flood(strings.ToLower(src.Source()))
}

func (a *FloodAggregator) observeDuration(cat domain.Category, start time.Time) {
	a.metrics.AggregateDuration.WithLabelValues(string(cat)).Observe(time.Since(start).Seconds())
}

// WeatherAggregator wraps the single weather source with fallback.
type WeatherAggregator struct {
	source   WeatherSource
	location string
	fb       *fallback.Generator
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewWeather creates the weather aggregator. The location is reused by the
// fallback so synthetic reports name the same place as real ones.
func NewWeather(source WeatherSource, location string, fb *fallback.Generator, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *WeatherAggregator {
	return &WeatherAggregator{source: source, location: location, fb: fb, clock: clock, logger: logger, metrics: metrics}
}

func (a *WeatherAggregator) Category() domain.Category { return domain.CategoryWeather }

func (a *WeatherAggregator) Aggregate(ctx context.Context) domain.CategorySnapshot {
	start := time.Now()
	defer func() {
		a.metrics.AggregateDuration.WithLabelValues(string(domain.CategoryWeather)).Observe(time.Since(start).Seconds())
	}()

	fetchStart := time.Now()
	report, err := a.source.Fetch(ctx)
	a.metrics.ProviderLatency.WithLabelValues(a.source.Source()).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		logFetchFailure(a.logger, a.metrics, a.source.Source(), domain.CategoryWeather, err)
		report = a.fb.Weather(a.location)
	} else {
		a.metrics.ProviderFetches.WithLabelValues(a.source.Source(), "success").Inc()
	}

	return domain.CategorySnapshot{
		Category:      domain.CategoryWeather,
		Weather:       &report,
		ActiveSources: []string{a.source.Source()},
		LastUpdated:   a.clock.Now(),
	}
}

// TrafficAggregator wraps the single traffic source with fallback.
type TrafficAggregator struct {
	source  TrafficSource
	fb      *fallback.Generator
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTraffic creates the traffic aggregator.
func NewTraffic(source TrafficSource, fb *fallback.Generator, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *TrafficAggregator {
	return &TrafficAggregator{source: source, fb: fb, clock: clock, logger: logger, metrics: metrics}
}

func (a *TrafficAggregator) Category() domain.Category { return domain.CategoryTraffic }

func (a *TrafficAggregator) Aggregate(ctx context.Context) domain.CategorySnapshot {
	start := time.Now()
	defer func() {
		a.metrics.AggregateDuration.WithLabelValues(string(domain.CategoryTraffic)).Observe(time.Since(start).Seconds())
	}()

	fetchStart := time.Now()
	highways, err := a.source.Fetch(ctx)
	a.metrics.ProviderLatency.WithLabelValues(a.source.Source()).Observe(time.Since(fetchStart).Seconds())
	switch {
	case err != nil:
		logFetchFailure(a.logger, a.metrics, a.source.Source(), domain.CategoryTraffic, err)
		highways = a.fb.Traffic()
	case len(highways) == 0:
		// An empty feed is technically a success but useless downstream.
		a.metrics.ProviderFetches.WithLabelValues(a.source.Source(), "success").Inc()
		a.metrics.FallbacksServed.WithLabelValues(string(domain.CategoryTraffic)).Inc()
		a.logger.Debug("traffic feed returned no highways, using synthetic data")
		highways = a.fb.Traffic()
	default:
		a.metrics.ProviderFetches.WithLabelValues(a.source.Source(), "success").Inc()
	}

	return domain.CategorySnapshot{
		Category:      domain.CategoryTraffic,
		Highways:      highways,
		ActiveSources: []string{a.source.Source()},
		LastUpdated:   a.clock.Now(),
	}
}

// TransitAggregator wraps the single transit source with fallback.
type TransitAggregator struct {
	source  TransitSource
	fb      *fallback.Generator
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransit creates the transit aggregator.
func NewTransit(source TransitSource, fb *fallback.Generator, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *TransitAggregator {
	return &TransitAggregator{source: source, fb: fb, clock: clock, logger: logger, metrics: metrics}
}

func (a *TransitAggregator) Category() domain.Category { return domain.CategoryTransit }

func (a *TransitAggregator) Aggregate(ctx context.Context) domain.CategorySnapshot {
	start := time.Now()
	defer func() {
		a.metrics.AggregateDuration.WithLabelValues(string(domain.CategoryTransit)).Observe(time.Since(start).Seconds())
	}()

	fetchStart := time.Now()
	status, err := a.source.Fetch(ctx)
	a.metrics.ProviderLatency.WithLabelValues(a.source.Source()).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		logFetchFailure(a.logger, a.metrics, a.source.Source(), domain.CategoryTransit, err)
		status = a.fb.Transit()
	} else {
		a.metrics.ProviderFetches.WithLabelValues(a.source.Source(), "success").Inc()
	}

	return domain.CategorySnapshot{
		Category:      domain.CategoryTransit,
		Transit:       &status,
		ActiveSources: []string{a.source.Source()},
		LastUpdated:   a.clock.Now(),
	}
}

// logFetchFailure records a provider failure at the severity its class
// warrants. NotConfigured is routine; anything else is an upstream fault.
func logFetchFailure(logger *slog.Logger, metrics *observability.Metrics, source string, cat domain.Category, err error) {
	if errors.Is(err, domain.ErrNotConfigured) {
		logger.Debug("provider not configured, using synthetic data", "source", source, "category", cat)
		metrics.ProviderFetches.WithLabelValues(source, "not_configured").Inc()
	} else {
		logger.Warn("provider fetch failed, using synthetic data", "source", source, "category", cat, "error", err)
		metrics.ProviderFetches.WithLabelValues(source, "upstream_error").Inc()
	}
	metrics.FallbacksServed.WithLabelValues(string(cat)).Inc()
}
