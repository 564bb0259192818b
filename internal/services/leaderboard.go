package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/datastore/redis_store"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/pkg/caching"
)

// ServiceLeaderboard serves ranked vote boards out of redis sorted sets. The
// sets are bumped inline on every vote and rebuilt from the ledger on a cron
// schedule, so drift never outlives one rebuild cycle.
type ServiceLeaderboard struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceConfig *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, redisDB, readonlyPostgresDB, cache, readonlyCache, serviceConfig}, nil
}

func (service *ServiceLeaderboard) GetStreamerLeaderboard(ctx context.Context, name string) ([]*models.LeaderboardItem, error) {
	switch name {
	case LEADERBOARD_STREAMERS_TODAY, LEADERBOARD_STREAMERS_WEEKLY, LEADERBOARD_STREAMERS_ALLTIME:
	default:
		return nil, ErrUnknownLeaderboard
	}

	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_STREAMER_LEADERBOARD_LIMIT, STREAMER_LEADERBOARD_DEFAULT_LIMIT)

	callback := func() ([]*models.LeaderboardItem, error) {
		return redis_store.GetLeaderboard(ctx, service.redisDB, name, limit)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboard(name, limit), CACHE_TTL_5_SECONDS, callback)
}

// GetSupporterLeaderboard returns the weekly top supporters plus the caller's
// own rank, which may sit far below the cutoff.
func (service *ServiceLeaderboard) GetSupporterLeaderboard(ctx context.Context, userID string) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_SUPPORTER_LEADERBOARD_LIMIT, SUPPORTER_LEADERBOARD_DEFAULT_LIMIT)

	items, err := redis_store.GetLeaderboard(ctx, service.redisDB, LEADERBOARD_SUPPORTERS_WEEKLY, limit)
	if err != nil {
		return nil, err
	}

	response := &models.LeaderboardResponse{Leaderboard: items}
	if userID == "" {
		return response, nil
	}

	rank, err := redis_store.GetRank(ctx, service.redisDB, LEADERBOARD_SUPPORTERS_WEEKLY, userID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return response, nil
		}
		return nil, err
	}

	score, err := redis_store.GetScore(ctx, service.redisDB, LEADERBOARD_SUPPORTERS_WEEKLY, userID)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	response.Me = &models.LeaderboardItem{
		Member: userID,
		Score:  score,
		Rank:   int(rank) + 1,
	}

	return response, nil
}

// Rebuild recomputes every board from the vote ledger. The windowed boards
// (today, weekly) also rely on this to drop entries from finished windows.
func (service *ServiceLeaderboard) Rebuild(ctx context.Context) error {
	now := time.Now()
	today := pkg.StartOfToday(now)
	week := pkg.StartOfWeek(now)

	boards := []struct {
		name string
		from *time.Time
	}{
		{LEADERBOARD_STREAMERS_TODAY, &today},
		{LEADERBOARD_STREAMERS_WEEKLY, &week},
		{LEADERBOARD_STREAMERS_ALLTIME, nil},
	}

	poolSize, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_DISCOVERY_POOL_SIZE, DISCOVERY_POOL_DEFAULT_SIZE)
	rebuildLimit := poolSize
	if rebuildLimit < REBUILD_PAGE_SIZE {
		rebuildLimit = REBUILD_PAGE_SIZE
	}

	for _, board := range boards {
		totals, err := datastore.GetStreamerTotalsFromTime(ctx, service.readonlyPostgresDB, board.from, rebuildLimit, 0)
		if err != nil {
			return err
		}

		if err := redis_store.ClearLeaderboard(ctx, service.redisDB, board.name); err != nil {
			return err
		}

		for _, total := range totals {
			_, err := redis_store.SetLeaderboard(ctx, service.redisDB, board.name, &models.LeaderboardItem{
				Member: total.Streamer,
				Score:  float64(total.TotalVotes),
			})
			if err != nil {
				return err
			}
		}

		log.Println("Rebuilt leaderboard:", board.name, "entries:", len(totals))
	}

	supporters, err := datastore.GetSupporterTotalsFromTime(ctx, service.readonlyPostgresDB, &week, rebuildLimit, 0)
	if err != nil {
		return err
	}

	if err := redis_store.ClearLeaderboard(ctx, service.redisDB, LEADERBOARD_SUPPORTERS_WEEKLY); err != nil {
		return err
	}

	for _, total := range supporters {
		_, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_SUPPORTERS_WEEKLY, &models.LeaderboardItem{
			Member: total.UserID,
			Score:  float64(total.TotalVotes),
		})
		if err != nil {
			return err
		}
	}

	log.Println("Rebuilt leaderboard:", LEADERBOARD_SUPPORTERS_WEEKLY, "entries:", len(supporters))
	return nil
}
