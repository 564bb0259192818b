package models_test

import (
	"testing"

	"chadder/internal/models"
)

func TestTierWeeklyGems(t *testing.T) {
	tests := []struct {
		tier string
		want int
	}{
		{models.TIER_FREE, 0},
		{models.TIER_COMMON, 25},
		{models.TIER_RARE, 50},
		{models.TIER_EPIC, 100},
	}

	for _, tt := range tests {
		if got := models.TierWeeklyGems[tt.tier]; got != tt.want {
			t.Errorf("TierWeeklyGems[%q] = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestValidTier(t *testing.T) {
	for _, tier := range []string{models.TIER_FREE, models.TIER_COMMON, models.TIER_RARE, models.TIER_EPIC} {
		if !models.ValidTier(tier) {
			t.Errorf("ValidTier(%q) = false, want true", tier)
		}
	}

	for _, tier := range []string{"", "legendary", "Common", "FREE"} {
		if models.ValidTier(tier) {
			t.Errorf("ValidTier(%q) = true, want false", tier)
		}
	}
}
