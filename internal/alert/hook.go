package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

const hookDispatchTimeout = 10 * time.Second

// SnapshotHook returns a publish hook that raises an alert when a category's
// overall tier escalates into high or critical. Repeated snapshots at the
// same tier do not re-alert; a drop and a later climb back up does.
func SnapshotHook(d *Dispatcher) func(domain.CategorySnapshot) {
	var mu sync.Mutex
	last := make(map[domain.Category]domain.RiskTier)

	return func(snap domain.CategorySnapshot) {
		if snap.Summary == nil {
			return
		}
		tier := snap.Summary.OverallTier

		mu.Lock()
		prev, seen := last[snap.Category]
		last[snap.Category] = tier
		mu.Unlock()

		if tier.Rank() < domain.TierHigh.Rank() {
			return
		}
		if seen && prev.Rank() >= tier.Rank() {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), hookDispatchTimeout)
		defer cancel()
		d.Dispatch(ctx, FromSnapshot(snap))
	}
}

// FromSnapshot builds an alert describing a snapshot's current risk state,
// listing every area at high or critical tier.
func FromSnapshot(snap domain.CategorySnapshot) Alert {
	tier := domain.TierMinimal
	score := 0.0
	if snap.Summary != nil {
		tier = snap.Summary.OverallTier
		score = snap.Summary.OverallScore
	}
	var areas []string
	for _, obs := range snap.Observations {
		if obs.RiskTier.Rank() >= domain.TierHigh.Rank() {
			areas = append(areas, obs.AreaName)
		}
	}
	return Alert{
		Category: snap.Category,
		Severity: tier,
		Title:    fmt.Sprintf("%s risk is %s", snap.Category, tier),
		Message: fmt.Sprintf("Overall %s risk score is %.0f (%s). %d area(s) at high or critical tier.",
			snap.Category, score, tier, len(areas)),
		Areas:    areas,
		IssuedAt: snap.LastUpdated,
	}
}
