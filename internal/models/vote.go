package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Vote is an append-only ledger entry. Rows are never updated or deleted.
type Vote struct {
	bun.BaseModel `bun:"table:votes"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id" json:"user_id"`
	Streamer      string    `bun:"streamer" json:"streamer"`
	Amount        int       `bun:"amount" json:"amount"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

type StreamerTotal struct {
	Streamer   string `bun:"streamer" json:"streamer"`
	TotalVotes int    `bun:"total_votes" json:"total_votes"`
}

type SupporterTotal struct {
	UserID     string `bun:"user_id" json:"user_id"`
	TotalVotes int    `bun:"total_votes" json:"total_votes"`
}

// VoteWindows holds the ledger rollups for one streamer, recomputed per request.
type VoteWindows struct {
	Today   int `json:"today"`
	Week    int `json:"week"`
	AllTime int `json:"all_time"`
}
