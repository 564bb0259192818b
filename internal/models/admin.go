package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Admin struct {
	bun.BaseModel `bun:"table:admins"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Email         string    `bun:"email" json:"email"`
	APIKey        string    `bun:"api_key" json:"-"`
	Enabled       bool      `bun:"enabled" json:"enabled"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type AdminStats struct {
	TotalUsers       int     `json:"total_users"`
	VotesThisWeek    int     `json:"votes_this_week"`
	ActiveSubs       int     `json:"active_subscriptions"`
	WeeklyPoolAmount float64 `json:"weekly_pool_amount"`
}
