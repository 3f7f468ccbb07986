package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/adapter/httpapi"
	"github.com/riserlabs/hazard-feed/internal/aggregate"
	"github.com/riserlabs/hazard-feed/internal/alert"
	"github.com/riserlabs/hazard-feed/internal/config"
	"github.com/riserlabs/hazard-feed/internal/fallback"
	"github.com/riserlabs/hazard-feed/internal/hub"
	"github.com/riserlabs/hazard-feed/internal/observability"
	"github.com/riserlabs/hazard-feed/internal/provider"
	"github.com/riserlabs/hazard-feed/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	fb := fallback.NewGenerator(clock)

	// Every source is always registered; unconfigured ones serve synthetic
	// fallback data so the feed never goes dark.
	logSourceMode(logger, "PAGASA", cfg.Providers.Pagasa.Configured())
	logSourceMode(logger, "NOAH", cfg.Providers.Noah.Configured())
	logSourceMode(logger, "NOAA", cfg.Providers.Noaa.Configured())
	logSourceMode(logger, "OpenWeatherMap", cfg.Providers.OpenWeatherAPIKey != "")
	logSourceMode(logger, "TrafficFeed", cfg.Providers.Traffic.Configured())
	logSourceMode(logger, "TransitFeed", cfg.Providers.Transit.Configured())

	floodSources := []aggregate.FloodSource{
		provider.NewPagasaClient(cfg.Providers.Pagasa.BaseURL, cfg.Providers.Pagasa.APIKey, cfg.Providers.Timeout, clock, logger),
		provider.NewNoahClient(cfg.Providers.Noah.BaseURL, cfg.Providers.Noah.APIKey, cfg.Providers.Timeout, clock, logger),
		provider.NewNoaaClient(cfg.Providers.Noaa.BaseURL, cfg.Providers.Noaa.APIKey, cfg.Providers.Timeout, clock, logger),
	}
	weatherSource := provider.NewOpenWeatherClient(cfg.Providers.OpenWeatherAPIKey, cfg.Providers.OpenWeatherLocation, cfg.Providers.Timeout, logger)
	trafficSource := provider.NewTrafficClient(cfg.Providers.Traffic.BaseURL, cfg.Providers.Traffic.APIKey, cfg.Providers.TrafficRegion, cfg.Providers.Timeout, logger)
	transitSource := provider.NewTransitClient(cfg.Providers.Transit.BaseURL, cfg.Providers.Transit.APIKey, cfg.Providers.TransitCity, cfg.Providers.Timeout, logger)

	h := hub.New(logger, metrics)

	kafkaChannel := alert.NewKafkaChannel(cfg.Alerts.KafkaBrokers, cfg.Alerts.KafkaTopic, logger)
	channels := []alert.Channel{
		alert.NewLogChannel(logger),
		kafkaChannel,
		alert.NewWebhookChannel(cfg.Alerts.WebhookURL, cfg.Alerts.WebhookTimeout),
	}
	dispatcher := alert.NewDispatcher(channels, recipients(cfg), clock, logger, metrics)

	sched := scheduler.New(h, clock, logger, metrics,
		scheduler.WithPublishHook(alert.SnapshotHook(dispatcher)))
	sched.Register(aggregate.NewFlood(floodSources, fb, clock, logger, metrics), cfg.Schedule.Flood)
	sched.Register(aggregate.NewWeather(weatherSource, cfg.Providers.OpenWeatherLocation, fb, clock, logger, metrics), cfg.Schedule.Weather)
	sched.Register(aggregate.NewTraffic(trafficSource, fb, clock, logger, metrics), cfg.Schedule.Traffic)
	sched.Register(aggregate.NewTransit(transitSource, fb, clock, logger, metrics), cfg.Schedule.Transit)

	srv := httpapi.NewServer(cfg.HTTPAddr, h, dispatcher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	h.Close()
	if err := kafkaChannel.Close(); err != nil {
		logger.Error("kafka channel close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func logSourceMode(logger *slog.Logger, source string, configured bool) {
	if configured {
		logger.Info("data source configured", "source", source, "mode", "live")
		return
	}
	logger.Info("data source not configured", "source", source, "mode", "fallback")
}

func recipients(cfg *config.Config) []alert.Recipient {
	out := make([]alert.Recipient, 0, len(cfg.Alerts.Recipients))
	for _, r := range cfg.Alerts.Recipients {
		out = append(out, alert.Recipient{Name: r.Name, Phone: r.Phone, Email: r.Email})
	}
	return out
}
