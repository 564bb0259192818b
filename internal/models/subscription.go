package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TIER_FREE   = "free"
	TIER_COMMON = "common"
	TIER_RARE   = "rare"
	TIER_EPIC   = "epic"
)

// Weekly gem allotment per tier (100/200/400 per month in Stripe pricing).
var TierWeeklyGems = map[string]int{
	TIER_FREE:   0,
	TIER_COMMON: 25,
	TIER_RARE:   50,
	TIER_EPIC:   100,
}

// Weekly dollar revenue per tier, derived from monthly Stripe pricing.
var TierWeeklyPrice = map[string]float64{
	TIER_FREE:   0,
	TIER_COMMON: 1.25,
	TIER_RARE:   2.50,
	TIER_EPIC:   5.00,
}

// ValidTier reports whether tier is one of the known subscription tiers.
func ValidTier(tier string) bool {
	_, ok := TierWeeklyGems[tier]
	return ok
}

// Subscription keeps one row per user, upserted on each billing webhook.
type Subscription struct {
	bun.BaseModel        `bun:"table:subscriptions"`
	ID                   int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID               string    `bun:"user_id" json:"user_id"`
	Tier                 string    `bun:"tier" json:"tier"`
	AmountPerWeek        float64   `bun:"amount_per_week" json:"amount_per_week"`
	Status               string    `bun:"status" json:"status"`
	StripeSubscriptionID *string   `bun:"stripe_subscription_id" json:"-"`
	UpdatedAt            time.Time `bun:"updated_at" json:"updated_at"`
}
