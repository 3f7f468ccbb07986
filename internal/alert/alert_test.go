package alert_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riserlabs/hazard-feed/internal/alert"
	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/observability"
)

// --- mocks ---

type recordingChannel struct {
	name string
	err  error

	mu   sync.Mutex
	sent []alert.Alert
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(_ context.Context, a alert.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, a)
	return nil
}

func (c *recordingChannel) alerts() []alert.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]alert.Alert(nil), c.sent...)
}

func newTestDispatcher(recipients []alert.Recipient, channels ...alert.Channel) *alert.Dispatcher {
	return alert.NewDispatcher(channels, recipients,
		clockwork.NewFakeClockAt(time.Date(2026, time.July, 15, 8, 0, 0, 0, time.UTC)),
		slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
}

// --- tests ---

func TestDispatcher_StampsAndFansOut(t *testing.T) {
	first := &recordingChannel{name: "first"}
	second := &recordingChannel{name: "second"}
	recipients := []alert.Recipient{{Name: "Duty Officer", Phone: "+63-900-000-0000"}}

	d := newTestDispatcher(recipients, first, second)
	delivered := d.Dispatch(context.Background(), alert.Alert{
		Category: domain.CategoryFlood,
		Severity: domain.TierCritical,
		Title:    "Flood risk is critical",
	})

	assert.Equal(t, 2, delivered)
	require.Len(t, first.alerts(), 1)
	require.Len(t, second.alerts(), 1)

	got := first.alerts()[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, time.Date(2026, time.July, 15, 8, 0, 0, 0, time.UTC), got.IssuedAt)
	assert.Equal(t, recipients, got.Recipients)
	assert.Equal(t, got.ID, second.alerts()[0].ID)
}

func TestDispatcher_FailSoftAcrossChannels(t *testing.T) {
	broken := &recordingChannel{name: "broken", err: errors.New("gateway down")}
	unconfigured := &recordingChannel{name: "idle", err: domain.ErrNotConfigured}
	healthy := &recordingChannel{name: "healthy"}

	d := newTestDispatcher(nil, broken, unconfigured, healthy)
	delivered := d.Dispatch(context.Background(), alert.Alert{
		Category: domain.CategoryFlood,
		Severity: domain.TierHigh,
	})

	assert.Equal(t, 1, delivered)
	assert.Len(t, healthy.alerts(), 1)
}

func TestDispatcher_KeepsExplicitRecipients(t *testing.T) {
	ch := &recordingChannel{name: "ch"}
	d := newTestDispatcher([]alert.Recipient{{Name: "Default"}}, ch)

	explicit := []alert.Recipient{{Name: "Barangay Captain", Email: "captain@example.ph"}}
	d.Dispatch(context.Background(), alert.Alert{Recipients: explicit})

	require.Len(t, ch.alerts(), 1)
	assert.Equal(t, explicit, ch.alerts()[0].Recipients)
}

func TestWebhookChannel_PostsAlertJSON(t *testing.T) {
	var (
		mu   sync.Mutex
		got  alert.Alert
		hits int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		hits++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ch := alert.NewWebhookChannel(srv.URL, 5*time.Second)
	err := ch.Send(context.Background(), alert.Alert{
		ID:       "alert-1",
		Category: domain.CategoryFlood,
		Severity: domain.TierCritical,
		Areas:    []string{"Marikina"},
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
	assert.Equal(t, "alert-1", got.ID)
	assert.Equal(t, domain.TierCritical, got.Severity)
}

func TestWebhookChannel_NotConfigured(t *testing.T) {
	ch := alert.NewWebhookChannel("", 5*time.Second)
	err := ch.Send(context.Background(), alert.Alert{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestWebhookChannel_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ch := alert.NewWebhookChannel(srv.URL, 5*time.Second)
	err := ch.Send(context.Background(), alert.Alert{ID: "alert-2"})
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "webhook", upstream.Source)
}

func TestKafkaChannel_NotConfigured(t *testing.T) {
	ch := alert.NewKafkaChannel(nil, "", slog.New(slog.DiscardHandler))
	err := ch.Send(context.Background(), alert.Alert{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.NoError(t, ch.Close())
}

func TestLogChannel_AlwaysDelivers(t *testing.T) {
	ch := alert.NewLogChannel(slog.New(slog.DiscardHandler))
	assert.NoError(t, ch.Send(context.Background(), alert.Alert{Severity: domain.TierCritical}))
}

func TestSnapshotHook_AlertsOnEscalationOnly(t *testing.T) {
	ch := &recordingChannel{name: "ch"}
	d := newTestDispatcher(nil, ch)
	hook := alert.SnapshotHook(d)

	snapshotAt := func(score float64) domain.CategorySnapshot {
		return domain.CategorySnapshot{
			Category: domain.CategoryFlood,
			Observations: []domain.RiskObservation{
				{AreaName: "Marikina", RiskScore: score, RiskTier: domain.TierForScore(score)},
				{AreaName: "Taytay", RiskScore: 30, RiskTier: domain.TierLow},
			},
			Summary: &domain.Summary{
				OverallScore: score,
				OverallTier:  domain.TierForScore(score),
			},
			LastUpdated: time.Date(2026, time.July, 15, 8, 0, 0, 0, time.UTC),
		}
	}

	hook(snapshotAt(30)) // low tier, no alert
	assert.Empty(t, ch.alerts())

	hook(snapshotAt(70)) // escalates to high
	require.Len(t, ch.alerts(), 1)
	got := ch.alerts()[0]
	assert.Equal(t, domain.TierHigh, got.Severity)
	assert.Equal(t, []string{"Marikina"}, got.Areas)

	hook(snapshotAt(65)) // still high, no repeat
	assert.Len(t, ch.alerts(), 1)

	hook(snapshotAt(90)) // escalates again to critical
	require.Len(t, ch.alerts(), 2)
	assert.Equal(t, domain.TierCritical, ch.alerts()[1].Severity)

	hook(snapshotAt(10)) // de-escalates silently
	hook(snapshotAt(85)) // climbing back up alerts again
	assert.Len(t, ch.alerts(), 3)
}

func TestSnapshotHook_IgnoresSnapshotsWithoutSummary(t *testing.T) {
	ch := &recordingChannel{name: "ch"}
	hook := alert.SnapshotHook(newTestDispatcher(nil, ch))

	hook(domain.CategorySnapshot{Category: domain.CategoryWeather})
	assert.Empty(t, ch.alerts())
}
