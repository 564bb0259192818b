package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserFavorite struct {
	bun.BaseModel `bun:"table:user_favorites"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Streamer      string    `bun:"streamer" json:"streamer"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
