package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PrizePool keeps one active row per week. current_amount is recomputed from
// the vote ledger, never incrementally maintained.
type PrizePool struct {
	bun.BaseModel `bun:"table:prize_pool"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	WeekStart     time.Time `bun:"week_start" json:"week_start"`
	WeekEnd       time.Time `bun:"week_end" json:"week_end"`
	CurrentAmount float64   `bun:"current_amount" json:"current_amount"`
	IsActive      bool      `bun:"is_active" json:"is_active"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}
