package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/datastore/redis_store"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/pkg/caching"
)

type ServiceVote struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceUser *ServiceUser
}

func NewServiceVote(container *do.Injector) (*ServiceVote, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
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

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return &ServiceVote{container, db, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, serviceUser}, nil
}

// RecordVote appends a ledger row and debits the voter's balance. The debit is
// a conditional single-statement update, so an over-spend cannot slip through
// even when two requests race past the redsync mutex on different instances.
func (service *ServiceVote) RecordVote(ctx context.Context, user *models.User, streamer string, amount int) (*models.Vote, error) {
	if amount <= 0 {
		return nil, ErrInvalidVoteAmount
	}

	streamer = strings.ToLower(streamer)

	mutex := service.rs.NewMutex(LockKeyUserVote(user.ID))
	if err := mutex.TryLock(); err != nil {
		return nil, ErrUserLock
	}
	//nolint:errcheck
	defer mutex.Unlock()

	vote := &models.Vote{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Streamer:  streamer,
		Amount:    amount,
		CreatedAt: time.Now(),
	}

	ok, err := datastore.InsertVoteWithDebit(ctx, service.postgresDB, vote)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientBalance
	}

	service.bumpLeaderboards(ctx, vote)

	if err := service.serviceUser.ClearUserCache(ctx, user.ID); err != nil {
		log.Println(err)
	}
	if err := service.cache.Delete(ctx, DBKeyStreamerWindows(streamer)); err != nil {
		log.Println(err)
	}

	return vote, nil
}

func (service *ServiceVote) bumpLeaderboards(ctx context.Context, vote *models.Vote) {
	delta := float64(vote.Amount)
	for _, name := range []string{LEADERBOARD_STREAMERS_TODAY, LEADERBOARD_STREAMERS_WEEKLY, LEADERBOARD_STREAMERS_ALLTIME} {
		if err := redis_store.IncrLeaderboard(ctx, service.redisDB, name, vote.Streamer, delta); err != nil {
			log.Println(err)
		}
	}

	if err := redis_store.IncrLeaderboard(ctx, service.redisDB, LEADERBOARD_SUPPORTERS_WEEKLY, vote.UserID, delta); err != nil {
		log.Println(err)
	}
}

// GetStreamerWindows recomputes today/week/all-time totals from the raw
// ledger. No rollup rows exist to drift.
func (service *ServiceVote) GetStreamerWindows(ctx context.Context, streamer string) (*models.VoteWindows, error) {
	streamer = strings.ToLower(streamer)
	callback := func() (*models.VoteWindows, error) {
		return service.windows(ctx, func(from *time.Time) (int, error) {
			return datastore.SumVotesForStreamer(ctx, service.readonlyPostgresDB, streamer, from)
		})
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyStreamerWindows(streamer), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceVote) GetUserWindows(ctx context.Context, userID string) (*models.VoteWindows, error) {
	callback := func() (*models.VoteWindows, error) {
		return service.windows(ctx, func(from *time.Time) (int, error) {
			return datastore.SumVotesForUser(ctx, service.readonlyPostgresDB, userID, from)
		})
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserWindows(userID), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceVote) windows(ctx context.Context, sum func(from *time.Time) (int, error)) (*models.VoteWindows, error) {
	now := time.Now()
	today := pkg.StartOfToday(now)
	week := pkg.StartOfWeek(now)

	todayTotal, err := sum(&today)
	if err != nil {
		return nil, err
	}

	weekTotal, err := sum(&week)
	if err != nil {
		return nil, err
	}

	allTime, err := sum(nil)
	if err != nil {
		return nil, err
	}

	return &models.VoteWindows{
		Today:   todayTotal,
		Week:    weekTotal,
		AllTime: allTime,
	}, nil
}

func (service *ServiceVote) GetVoteHistory(ctx context.Context, userID string, limit, offset int) ([]*models.Vote, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return datastore.GetVotesByUser(ctx, service.readonlyPostgresDB, userID, limit, offset)
}
