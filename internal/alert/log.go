package alert

import (
	"context"
	"log/slog"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// LogChannel writes alerts to the service log. Always configured, so every
// alert leaves at least one trace even when external channels are down.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Send(_ context.Context, a Alert) error {
	level := slog.LevelWarn
	if a.Severity == domain.TierCritical {
		level = slog.LevelError
	}
	c.logger.Log(context.Background(), level, "emergency alert",
		"alert_id", a.ID,
		"category", a.Category,
		"severity", a.Severity,
		"title", a.Title,
		"message", a.Message,
		"areas", a.Areas)
	return nil
}
