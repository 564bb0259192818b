package redis_store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chadder/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", strings.ToLower(name))
}

func dbKeyTwitchToken() string {
	return "twitch:app_token"
}

// IncrLeaderboard bumps a member's score. Vote volume boards grow by the vote
// amount; rebuilds go through SetLeaderboard instead.
func IncrLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, member string, delta float64) error {
	return cmd.ZIncrBy(ctx, dbKeyLeaderboard(name), delta, member).Err()
}

func SetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, v *models.LeaderboardItem) (*models.LeaderboardItem, error) {
	err := cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  v.Score,
		Member: v.Member,
	}).Err()

	if err != nil {
		return nil, err
	}

	return v, nil
}

func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	err := cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
	if err != nil {
		return err
	}

	return nil
}

func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*models.LeaderboardItem, error) {
	// num always greater than 0
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		results = append(results, &models.LeaderboardItem{
			Member: item.Member.(string),
			Score:  item.Score,
			Rank:   i + 1,
		})
	}

	return results, nil
}

func GetRank(ctx context.Context, cmd redis.Cmdable, name string, member string) (int64, error) {
	rank, err := cmd.ZRevRank(ctx, dbKeyLeaderboard(name), member).Result()
	if err != nil {
		return -1, err
	}

	return rank, nil
}

func GetScore(ctx context.Context, cmd redis.Cmdable, name string, member string) (float64, error) {
	score, err := cmd.ZScore(ctx, dbKeyLeaderboard(name), member).Result()
	if err != nil {
		return -1, err
	}

	return score, nil
}

// AppToken is the cached Twitch client-credentials token. It lives in redis so
// every instance shares one token and restarts do not trigger a re-grant.
type AppToken struct {
	AccessToken string    `msgpack:"access_token"`
	ExpiresAt   time.Time `msgpack:"expires_at"`
}

func GetTwitchToken(ctx context.Context, cmd redis.Cmdable) (*AppToken, error) {
	b, err := cmd.Get(ctx, dbKeyTwitchToken()).Bytes()
	if err != nil {
		return nil, err
	}

	var v *AppToken
	err = msgpack.Unmarshal(b, &v)
	return v, err
}

func SetTwitchToken(ctx context.Context, cmd redis.Cmdable, token *AppToken, ttl time.Duration) error {
	b, err := msgpack.Marshal(token)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyTwitchToken(), b, ttl).Err()
}
