// Package scoring converts raw per-area signals into bounded risk scores and
// tiers, and aggregates them into category-level summaries.
package scoring

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// Monsoon season for the monitored region, inclusive.
const (
	monsoonStart = time.June
	monsoonEnd   = time.November
)

// Signal carries the raw environmental inputs for scoring one area.
// Measured marks signals backed by a real upstream value: the variance
// factor is then fixed at 1.0 and the supplied measurements pass through
// unchanged. Synthetic signals get bounded random variance and derived
// measurements.
type Signal struct {
	Condition   string
	Source      string
	Measured    bool
	WaterLevelM float64
	RainfallMMH float64
}

// Engine scores areas. A nil random source uses the shared concurrency-safe
// generator; tests may inject a seeded source for determinism.
type Engine struct {
	clock clockwork.Clock
	rng   *rand.Rand
}

// NewEngine creates an Engine using the given clock and the shared random
// generator.
func NewEngine(clock clockwork.Clock) *Engine {
	return &Engine{clock: clock}
}

// NewEngineWithRand creates an Engine with an injected random generator.
// The generator is not safe for concurrent use; intended for tests.
func NewEngineWithRand(clock clockwork.Clock, rng *rand.Rand) *Engine {
	return &Engine{clock: clock, rng: rng}
}

// Score computes the risk observation for one area from its signal.
//
// riskScore = clamp(baseRisk × weatherMultiplier × seasonalMultiplier ×
// variance, 0, 1) × 100, rounded to a whole number. The tier is derived from
// the score through the shared threshold table, never set independently.
func (e *Engine) Score(area domain.Area, sig Signal) domain.RiskObservation {
	now := e.clock.Now()

	mult := WeatherMultiplier(sig.Condition) * SeasonalMultiplier(now.Month())

	variance := 1.0
	if !sig.Measured {
		variance = 0.8 + 0.4*e.randFloat()
	}

	frac := area.BaseRisk * mult * variance
	frac = math.Min(math.Max(frac, 0), 1)
	score := math.Round(frac * 100)

	obs := domain.RiskObservation{
		AreaName:   area.Name,
		RiskScore:  score,
		RiskTier:   domain.TierForScore(score),
		Lat:        area.Lat,
		Lng:        area.Lng,
		Population: area.Population,
		Weather:    sig.Condition,
		Source:     sig.Source,
		ObservedAt: now,
	}

	if sig.Measured {
		obs.WaterLevelM = sig.WaterLevelM
		obs.RainfallMMH = sig.RainfallMMH
		return obs
	}

	// Synthetic measurements: water level tracks the risk fraction, rainfall
	// only accompanies wet conditions.
	obs.WaterLevelM = round2(frac * 10)
	if IsRainy(sig.Condition) {
		obs.RainfallMMH = round2(e.randFloat() * 50)
	}
	return obs
}

// WeatherMultiplier returns the risk weight for a weather condition.
func WeatherMultiplier(condition string) float64 {
	switch condition {
	case "heavy-rain":
		return 2.5
	case "thunderstorm":
		return 3.0
	case "light-rain":
		return 1.5
	default:
		return 1.0
	}
}

// SeasonalMultiplier returns 1.3 during monsoon months, 1.0 otherwise.
func SeasonalMultiplier(m time.Month) float64 {
	if m >= monsoonStart && m <= monsoonEnd {
		return 1.3
	}
	return 1.0
}

// IsRainy reports whether the condition implies active precipitation.
func IsRainy(condition string) bool {
	return strings.Contains(condition, "rain") || condition == "thunderstorm"
}

func (e *Engine) randFloat() float64 {
	if e.rng != nil {
		return e.rng.Float64()
	}
	return rand.Float64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
