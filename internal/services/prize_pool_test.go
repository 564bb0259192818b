package services_test

import (
	"math"
	"testing"

	"chadder/internal/services"
)

func TestPoolAmount(t *testing.T) {
	tests := []struct {
		name        string
		weeklyVotes int
		want        float64
	}{
		{name: "zero votes yields empty pool", weeklyVotes: 0, want: 0},
		{name: "single vote", weeklyVotes: 1, want: 0.0725 * 0.55},
		{name: "round number", weeklyVotes: 1000, want: 39.875},
		{name: "large volume", weeklyVotes: 250000, want: 250000 * 0.0725 * 0.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.PoolAmount(tt.weeklyVotes)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PoolAmount(%d) = %v, want %v", tt.weeklyVotes, got, tt.want)
			}
		})
	}
}

func TestPoolAmountMonotonic(t *testing.T) {
	prev := services.PoolAmount(0)
	for _, votes := range []int{1, 10, 100, 1000, 100000} {
		got := services.PoolAmount(votes)
		if got <= prev {
			t.Fatalf("PoolAmount(%d) = %v, not greater than previous %v", votes, got, prev)
		}
		prev = got
	}
}
