package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GemGrant records every credit applied to a user's balance. The (user_id,
// action) pair is unique, so replaying a grant with the same action key is a
// no-op. Billing webhooks embed the provider event ID in the action.
type GemGrant struct {
	bun.BaseModel `bun:"table:gem_grant"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Gems          int       `bun:"gems" json:"gems"`
	Action        string    `bun:"action" json:"action"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type TotalGrant struct {
	UserID    string `bun:"user_id" json:"user_id"`
	TotalGems int    `bun:"total_gems" json:"total_gems"`
}
