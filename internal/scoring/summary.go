package scoring

import (
	"math"
	"sort"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// Summarize aggregates per-area observations into a category summary.
// OverallScore is the mean risk score rounded to a whole number, and
// OverallTier is derived from it through the same threshold table as
// per-area tiers.
func Summarize(observations []domain.RiskObservation) domain.Summary {
	counts := map[domain.RiskTier]int{
		domain.TierMinimal:  0,
		domain.TierLow:      0,
		domain.TierModerate: 0,
		domain.TierHigh:     0,
		domain.TierCritical: 0,
	}

	if len(observations) == 0 {
		return domain.Summary{OverallTier: domain.TierMinimal, TierCounts: counts}
	}

	var total float64
	for _, obs := range observations {
		total += obs.RiskScore
		counts[obs.RiskTier]++
	}

	mean := math.Round(total / float64(len(observations)))
	return domain.Summary{
		OverallScore: mean,
		OverallTier:  domain.TierForScore(mean),
		TierCounts:   counts,
	}
}

// SortByRisk orders observations most severe first: tier rank descending,
// then score descending, then area name for a stable order. Critical ranks
// above high.
func SortByRisk(observations []domain.RiskObservation) {
	sort.SliceStable(observations, func(i, j int) bool {
		a, b := observations[i], observations[j]
		if a.RiskTier.Rank() != b.RiskTier.Rank() {
			return a.RiskTier.Rank() > b.RiskTier.Rank()
		}
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		return a.AreaName < b.AreaName
	})
}
