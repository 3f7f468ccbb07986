// Package hub holds the latest snapshot per category and fans new snapshots
// out to connected subscribers.
//
// The hub is the only shared mutable state between the scheduler tasks and
// the observer-facing surfaces. One mutex serializes publish against
// subscribe-replay: a snapshot is fully cached before any subscriber can see
// it, and a new subscriber's replay can never interleave with a concurrent
// replacement.
package hub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/riserlabs/hazard-feed/internal/domain"
	"github.com/riserlabs/hazard-feed/internal/observability"
)

// DefaultBuffer is the per-subscription channel depth used when callers pass
// a non-positive buffer size.
const DefaultBuffer = 16

// Subscription is a non-owning handle to one connected observer. The hub
// closes Updates on Unsubscribe or Close; the observer must drain it.
type Subscription struct {
	ch chan domain.CategorySnapshot
}

// Updates delivers a replay of all cached snapshots followed by every
// snapshot published during the subscription.
func (s *Subscription) Updates() <-chan domain.CategorySnapshot { return s.ch }

// Hub is the state cache and broadcast registry.
type Hub struct {
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	latest map[domain.Category]domain.CategorySnapshot
	subs   map[*Subscription]struct{}
	closed bool
}

// New creates an empty hub.
func New(logger *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		logger:  logger,
		metrics: metrics,
		latest:  make(map[domain.Category]domain.CategorySnapshot),
		subs:    make(map[*Subscription]struct{}),
	}
}

// Publish replaces the cached snapshot for the snapshot's category and
// delivers it to every currently connected subscriber. Delivery is
// best-effort: a subscriber whose buffer is full misses this snapshot and
// self-heals on its next replay. Publishing after Close is a no-op.
func (h *Hub) Publish(snapshot domain.CategorySnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.latest[snapshot.Category] = snapshot
	h.metrics.SnapshotsPublished.WithLabelValues(string(snapshot.Category)).Inc()

	for sub := range h.subs {
		select {
		case sub.ch <- snapshot:
		default:
			h.metrics.DroppedDeliveries.Inc()
			h.logger.Warn("subscriber buffer full, dropping snapshot",
				"category", snapshot.Category)
		}
	}
}

// Subscribe registers a new observer and pre-loads its channel with the
// latest snapshot of every category that has one, so a late joiner never
// observes an empty category that has already ticked. The buffer is grown to
// fit the replay.
func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if buffer < len(h.latest) {
		buffer = len(h.latest)
	}
	sub := &Subscription{ch: make(chan domain.CategorySnapshot, buffer)}

	if h.closed {
		close(sub.ch)
		return sub
	}

	// Replay in canonical category order for deterministic delivery.
	for _, cat := range domain.Categories() {
		if snap, ok := h.latest[cat]; ok {
			sub.ch <- snap
		}
	}

	h.subs[sub] = struct{}{}
	h.metrics.Subscribers.Set(float64(len(h.subs)))
	return sub
}

// Unsubscribe removes the observer and closes its channel. Idempotent.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
	h.metrics.Subscribers.Set(float64(len(h.subs)))
}

// Latest returns the cached snapshot for one category, if any tick has
// completed for it.
func (h *Hub) Latest(cat domain.Category) (domain.CategorySnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap, ok := h.latest[cat]
	return snap, ok
}

// All returns every cached snapshot keyed by category plus a combined
// timestamp, the newest LastUpdated among them.
func (h *Hub) All() (map[domain.Category]domain.CategorySnapshot, time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[domain.Category]domain.CategorySnapshot, len(h.latest))
	var combined time.Time
	for cat, snap := range h.latest {
		out[cat] = snap
		if snap.LastUpdated.After(combined) {
			combined = snap.LastUpdated
		}
	}
	return out, combined
}

// CheckReadiness reports nil once every known category has published at
// least one snapshot.
func (h *Hub) CheckReadiness(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cat := range domain.Categories() {
		if _, ok := h.latest[cat]; !ok {
			return fmt.Errorf("category %s has not published yet", cat)
		}
	}
	return nil
}

// Close disconnects all subscribers and rejects further publishes. The
// cached snapshots stay readable for query surfaces that outlive the
// broadcast.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		close(sub.ch)
	}
	h.subs = make(map[*Subscription]struct{})
	h.metrics.Subscribers.Set(0)
}
