package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUserLock = errors.New("user locked")
var ErrInsufficientBalance = errors.New("insufficient gem balance")
var ErrInvalidVoteAmount = errors.New("vote amount must be positive")
var ErrAdGateClosed = errors.New("ad reward not available")
var ErrUnknownTier = errors.New("unknown subscription tier")
var ErrStreamerNotFound = errors.New("streamer not found")
var ErrUnknownLeaderboard = errors.New("unknown leaderboard")

const (
	CONFIG_SERVER_MODE                 = "SERVER_MODE"
	CONFIG_STREAMER_LEADERBOARD_LIMIT  = "STREAMER_LEADERBOARD_LIMIT"
	CONFIG_SUPPORTER_LEADERBOARD_LIMIT = "SUPPORTER_LEADERBOARD_LIMIT"
	CONFIG_DISCOVERY_POOL_SIZE         = "DISCOVERY_POOL_SIZE"
	CONFIG_CRONJOB_TIME_PRIZE_POOL     = "CRONJOB_TIME_PRIZE_POOL"
	CONFIG_CRONJOB_TIME_LEADERBOARD    = "CRONJOB_TIME_LEADERBOARD"
	CONFIG_CRONJOB_TIME_STREAMER_SYNC  = "CRONJOB_TIME_STREAMER_SYNC"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_PRODUCTION  = "production"

	LEADERBOARD_STREAMERS_TODAY   = "streamers_today"
	LEADERBOARD_STREAMERS_WEEKLY  = "streamers_weekly"
	LEADERBOARD_STREAMERS_ALLTIME = "streamers_alltime"
	LEADERBOARD_SUPPORTERS_WEEKLY = "supporters_weekly"

	STREAMER_LEADERBOARD_DEFAULT_LIMIT  = 20
	SUPPORTER_LEADERBOARD_DEFAULT_LIMIT = 20
	DISCOVERY_POOL_DEFAULT_SIZE         = 50
	REBUILD_PAGE_SIZE                   = 500

	// Prize pool economics. WACP converts gem volume to dollars; the payout
	// share is the fraction of that volume paid back out each week.
	WACP                   = 0.0725
	PRIZE_POOL_PAYOUT_RATE = 0.55

	// Ad reward policy. The daily cap resets at UTC midnight.
	AD_REWARD_GEMS = 10
	AD_MAX_PER_DAY = 5
	AD_COOLDOWN    = 30 * time.Second

	ADMIN_RATE_LIMIT_PER_MINUTE = 60

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour

	TWITCH_AUTH_BASE_URL  = "https://id.twitch.tv/oauth2"
	TWITCH_HELIX_BASE_URL = "https://api.twitch.tv/helix"

	// Helix batch endpoints cap login lists at 100 per call.
	TWITCH_BATCH_LIMIT = 100
)

func LockKeyUserVote(userID string) string {
	return fmt.Sprintf("lock:user-vote:%s", userID)
}

func LockKeyUserAdReward(userID string) string {
	return fmt.Sprintf("lock:user-ad-reward:%s", userID)
}

func LockKeyPrizePoolRollover() string {
	return "lock:prize-pool-rollover"
}

// db
func DBKeyUser(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func DBKeyUserByEmail(email string) string {
	return fmt.Sprintf("user:by_email:%s", strings.ToLower(email))
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyStreamer(username string) string {
	return fmt.Sprintf("streamer:%s", strings.ToLower(username))
}

func DBKeyStreamerWindows(username string) string {
	return fmt.Sprintf("streamer:windows:%s", strings.ToLower(username))
}

func DBKeyUserWindows(userID string) string {
	return fmt.Sprintf("user:windows:%s", userID)
}

func DBKeyLeaderboard(name string, limit int) string {
	return fmt.Sprintf("leaderboard_view:%s:%d", strings.ToLower(name), limit)
}

func DBKeyPrizePool() string {
	return "prize_pool:active"
}

func DBKeyUserFavorites(userID string) string {
	return fmt.Sprintf("user_favorites:%s", userID)
}

func DBKeyAdmin(apiKey string) string {
	return fmt.Sprintf("admin:%s", apiKey)
}

func DBKeySubscription(userID string) string {
	return fmt.Sprintf("subscription:%s", userID)
}

func LimitKeyAdmin(apiKey string) string {
	return fmt.Sprintf("limit:admin:%s", apiKey)
}

func LimitKeyAdWatch(userID string) string {
	return fmt.Sprintf("limit:ad-watch:%s", userID)
}
