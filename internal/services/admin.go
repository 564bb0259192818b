package services

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/interfaces"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/pkg/caching"
)

type ServiceAdmin struct {
	container          *do.Injector
	limiter            interfaces.Limiter
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	servicePrizePool *ServicePrizePool
}

func NewServiceAdmin(container *do.Injector) (*ServiceAdmin, error) {
	limiter, err := do.Invoke[interfaces.Limiter](container)
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

	servicePrizePool, err := do.Invoke[*ServicePrizePool](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAdmin{container, limiter, readonlyPostgresDB, cache, readonlyCache, servicePrizePool}, nil
}

// ValidateAPIKey resolves an admin by key, rate limited per key so a leaked
// key cannot hammer the lookup path.
func (service *ServiceAdmin) ValidateAPIKey(ctx context.Context, apiKey string) (*models.Admin, error) {
	if err := service.limiter.Allow(ctx, LimitKeyAdmin(apiKey), redis_rate.PerMinute(ADMIN_RATE_LIMIT_PER_MINUTE)); err != nil {
		return nil, err
	}

	callback := func() (*models.Admin, error) {
		return datastore.FindAdminByAPIKey(ctx, service.readonlyPostgresDB, apiKey)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyAdmin(apiKey), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceAdmin) GetStats(ctx context.Context) (*models.AdminStats, error) {
	totalUsers, err := datastore.CountUsers(ctx, service.readonlyPostgresDB)
	if err != nil {
		return nil, err
	}

	weekStart := pkg.StartOfWeek(time.Now())
	votesThisWeek, err := datastore.SumAllVotesFromTime(ctx, service.readonlyPostgresDB, weekStart)
	if err != nil {
		return nil, err
	}

	activeSubs, err := datastore.CountActiveSubscriptions(ctx, service.readonlyPostgresDB)
	if err != nil {
		return nil, err
	}

	pool, err := service.servicePrizePool.GetCurrentPrizePool(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:       totalUsers,
		VotesThisWeek:    votesThisWeek,
		ActiveSubs:       activeSubs,
		WeeklyPoolAmount: pool.CurrentAmount,
	}, nil
}
