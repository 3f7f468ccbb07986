package domain

import "time"

// RiskTier is the discrete severity label derived from a numeric risk score.
type RiskTier string

const (
	TierMinimal  RiskTier = "minimal"
	TierLow      RiskTier = "low"
	TierModerate RiskTier = "moderate"
	TierHigh     RiskTier = "high"
	TierCritical RiskTier = "critical"
)

// TierForScore maps a risk score in [0,100] to its tier. The thresholds are
// exclusive lower bounds: a score of exactly 80 is high, not critical.
func TierForScore(score float64) RiskTier {
	switch {
	case score > 80:
		return TierCritical
	case score > 60:
		return TierHigh
	case score > 40:
		return TierModerate
	case score > 20:
		return TierLow
	default:
		return TierMinimal
	}
}

// Rank orders tiers for sorted views: minimal 0 through critical 4.
func (t RiskTier) Rank() int {
	switch t {
	case TierCritical:
		return 4
	case TierHigh:
		return 3
	case TierModerate:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether t is one of the five known tiers.
func (t RiskTier) Valid() bool {
	switch t {
	case TierMinimal, TierLow, TierModerate, TierHigh, TierCritical:
		return true
	}
	return false
}

func (t RiskTier) String() string { return string(t) }

// Area is a named geographic unit used as static reference data by the
// synthetic fallback generator. BaseRisk is a weight in [0,1] applied before
// environmental multipliers.
type Area struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Population int     `json:"population,omitempty"`
	BaseRisk   float64 `json:"-"`
}

// RiskObservation is one per-area, per-cycle flood risk record. RiskTier is
// always derivable from RiskScore via TierForScore; the two never disagree.
type RiskObservation struct {
	AreaName   string   `json:"name"`
	RiskTier   RiskTier `json:"risk"`
	RiskScore  float64  `json:"riskScore"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Population int      `json:"population,omitempty"`

	// Supporting measurements, category-specific and optional.
	WaterLevelM float64 `json:"waterLevel,omitempty"`
	RainfallMMH float64 `json:"rainfall,omitempty"`
	Weather     string  `json:"weather,omitempty"`

	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observedAt"`

	EvacuationCenters []string          `json:"evacuationCenters,omitempty"`
	EmergencyContacts map[string]string `json:"emergencyContacts,omitempty"`
}
