package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Streamer mirrors Twitch profile metadata. Twitch stays the source of truth
// for liveness and viewer counts; rows here are refreshed by cron.
type Streamer struct {
	bun.BaseModel   `bun:"table:streamers"`
	Username        string    `bun:"username,pk" json:"username"`
	DisplayName     string    `bun:"display_name" json:"display_name"`
	Bio             string    `bun:"bio" json:"bio"`
	ProfileImageURL string    `bun:"profile_image_url" json:"profile_image_url"`
	IsLive          bool      `bun:"is_live" json:"is_live"`
	ViewerCount     int       `bun:"viewer_count" json:"viewer_count"`
	StreamTitle     string    `bun:"stream_title" json:"stream_title"`
	GameName        string    `bun:"game_name" json:"game_name"`
	UpdatedAt       time.Time `bun:"updated_at" json:"updated_at"`

	VoteTotals *VoteWindows `bun:"-" json:"vote_totals,omitempty"`
}
