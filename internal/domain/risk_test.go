package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForScore_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskTier
	}{
		{0, TierMinimal},
		{10, TierMinimal},
		{20, TierMinimal}, // boundary: exclusive lower bound
		{20.01, TierLow},
		{30, TierLow},
		{40, TierLow},
		{40.5, TierModerate},
		{55, TierModerate},
		{60, TierModerate},
		{61, TierHigh},
		{80, TierHigh},
		{80.1, TierCritical},
		{95, TierCritical},
		{100, TierCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForScore(tt.score), "score %v", tt.score)
	}
}

func TestTierForScore_FullRangeAgreement(t *testing.T) {
	// Walk the scale and verify the tier is a monotonic function of score.
	prev := TierForScore(0)
	for s := 0.0; s <= 100; s += 0.25 {
		tier := TierForScore(s)
		assert.GreaterOrEqual(t, tier.Rank(), prev.Rank(), "tier rank regressed at score %v", s)
		prev = tier
	}
}

func TestRiskTier_Rank(t *testing.T) {
	// critical ranks highest; every tier has a distinct rank.
	order := []RiskTier{TierMinimal, TierLow, TierModerate, TierHigh, TierCritical}
	for i, tier := range order {
		assert.Equal(t, i, tier.Rank())
	}
	assert.Equal(t, 0, RiskTier("unknown").Rank())
}

func TestRiskTier_Valid(t *testing.T) {
	for _, tier := range []RiskTier{TierMinimal, TierLow, TierModerate, TierHigh, TierCritical} {
		assert.True(t, tier.Valid())
	}
	assert.False(t, RiskTier("severe").Valid())
	assert.False(t, RiskTier("").Valid())
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("earthquake").Valid())
}
