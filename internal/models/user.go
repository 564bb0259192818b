package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SUBSCRIPTION_STATUS_INACTIVE = "inactive"
	SUBSCRIPTION_STATUS_ACTIVE   = "active"
)

type User struct {
	bun.BaseModel      `bun:"table:users"`
	ID                 string     `bun:"id,pk" json:"id"`
	Email              string     `bun:"email" json:"email"`
	DisplayName        string     `bun:"display_name" json:"display_name"`
	GemBalance         int        `bun:"gem_balance" json:"gem_balance"`
	SubscriptionTier   string     `bun:"subscription_tier" json:"subscription_tier"`
	SubscriptionStatus string     `bun:"subscription_status" json:"subscription_status"`
	StripeCustomerID   *string    `bun:"stripe_customer_id" json:"-"`
	LastAdWatched      *time.Time `bun:"last_ad_watched" json:"last_ad_watched"`
	AdsWatchedToday    int        `bun:"ads_watched_today" json:"ads_watched_today"`
	CreatedAt          time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time  `bun:"updated_at" json:"updated_at"`

	IsNewUser bool `bun:"-" json:"is_new_user"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}
