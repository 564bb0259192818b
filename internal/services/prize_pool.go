package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/pkg/caching"
)

type ServicePrizePool struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServicePrizePool(container *do.Injector) (*ServicePrizePool, error) {
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

	return &ServicePrizePool{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// PoolAmount converts weekly gem volume into the distributable dollar pool.
// Intermediate values stay unrounded; display rounding happens in handlers.
func PoolAmount(weeklyVotes int) float64 {
	return float64(weeklyVotes) * WACP * PRIZE_POOL_PAYOUT_RATE
}

// CalculateWeeklyPrizePool recomputes the current week's pool from the vote
// ledger and persists the active row. Zero votes is a valid result, not an
// error.
func (service *ServicePrizePool) CalculateWeeklyPrizePool(ctx context.Context) (*models.PrizePool, error) {
	now := time.Now()
	weekStart := pkg.StartOfWeek(now)
	weekEnd := pkg.EndOfWeek(now)

	weeklyVotes, err := datastore.SumAllVotesFromTime(ctx, service.readonlyPostgresDB, weekStart)
	if err != nil {
		return nil, err
	}

	pool := &models.PrizePool{
		WeekStart:     weekStart,
		WeekEnd:       weekEnd,
		CurrentAmount: PoolAmount(weeklyVotes),
		IsActive:      true,
		UpdatedAt:     now,
	}

	if err := datastore.UpsertWeeklyPrizePool(ctx, service.postgresDB, pool); err != nil {
		return nil, err
	}

	if err := service.cache.Delete(ctx, DBKeyPrizePool()); err != nil {
		log.Println(err)
	}

	return pool, nil
}

// GetCurrentPrizePool serves the active pool, recomputing when no row exists
// yet for the running week.
func (service *ServicePrizePool) GetCurrentPrizePool(ctx context.Context) (*models.PrizePool, error) {
	callback := func() (*models.PrizePool, error) {
		pool, err := datastore.GetActivePrizePool(ctx, service.readonlyPostgresDB)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		weekStart := pkg.StartOfWeek(time.Now())
		if pool == nil || !pool.WeekStart.Equal(weekStart) {
			return service.CalculateWeeklyPrizePool(ctx)
		}

		return pool, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPrizePool(), CACHE_TTL_1_MIN, callback)
}

// RolloverWeek closes pools from finished weeks and seeds the new week's row.
// Runs from cron; the redsync mutex keeps concurrent instances from doubling
// up on the rollover.
func (service *ServicePrizePool) RolloverWeek(ctx context.Context) error {
	mutex := service.rs.NewMutex(LockKeyPrizePoolRollover())
	if err := mutex.TryLock(); err != nil {
		return nil
	}
	//nolint:errcheck
	defer mutex.Unlock()

	weekStart := pkg.StartOfWeek(time.Now())
	if err := datastore.DeactivatePoolsBefore(ctx, service.postgresDB, weekStart); err != nil {
		return err
	}

	_, err := service.CalculateWeeklyPrizePool(ctx)
	return err
}
