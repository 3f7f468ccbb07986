// Package alert dispatches emergency notifications over pluggable channels.
//
// Dispatch is fail-soft: a channel that is unconfigured or errors is logged
// and counted, and the remaining channels still run. Alerting must never take
// the feed down.
package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/observability"
)

// Recipient is a notification target configured by the operator.
type Recipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Alert is one emergency notification.
type Alert struct {
	ID         string          `json:"id"`
	Category   domain.Category `json:"category"`
	Severity   domain.RiskTier `json:"severity"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Areas      []string        `json:"areas,omitempty"`
	Recipients []Recipient     `json:"recipients,omitempty"`
	IssuedAt   time.Time       `json:"issuedAt"`
}

// Channel delivers an alert to one destination. Send returns
// domain.ErrNotConfigured when the channel has no credentials or endpoint.
type Channel interface {
	Name() string
	Send(ctx context.Context, a Alert) error
}

// Dispatcher fans one alert out to every registered channel.
type Dispatcher struct {
	channels   []Channel
	recipients []Recipient
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewDispatcher creates a Dispatcher. recipients is the default target list,
// attached to alerts that do not carry their own.
func NewDispatcher(channels []Channel, recipients []Recipient, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		channels:   channels,
		recipients: recipients,
		clock:      clock,
		logger:     logger.With("component", "alert"),
		metrics:    metrics,
	}
}

// Dispatch stamps the alert and sends it over every channel, returning how
// many channels accepted it. Channel failures are logged, never propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, a Alert) int {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.IssuedAt.IsZero() {
		a.IssuedAt = d.clock.Now().UTC()
	}
	if len(a.Recipients) == 0 {
		a.Recipients = d.recipients
	}

	delivered := 0
	for _, ch := range d.channels {
		err := ch.Send(ctx, a)
		switch {
		case err == nil:
			delivered++
			d.metrics.AlertsDispatched.WithLabelValues(ch.Name(), "ok").Inc()
		case errors.Is(err, domain.ErrNotConfigured):
			d.metrics.AlertsDispatched.WithLabelValues(ch.Name(), "skipped").Inc()
			d.logger.Debug("alert channel not configured, skipping",
				"channel", ch.Name(), "alert_id", a.ID)
		default:
			d.metrics.AlertsDispatched.WithLabelValues(ch.Name(), "error").Inc()
			d.logger.Warn("alert delivery failed",
				"channel", ch.Name(), "alert_id", a.ID, "error", err)
		}
	}

	d.logger.Info("alert dispatched",
		"alert_id", a.ID,
		"category", a.Category,
		"severity", a.Severity,
		"channels_delivered", delivered,
		"recipients", len(a.Recipients))
	return delivered
}
