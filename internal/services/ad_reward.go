package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/interfaces"
	"chadder/internal/models"
	"chadder/internal/pkg"
)

// ServiceAdReward gates rewarded-ad gem claims: at most AD_MAX_PER_DAY per UTC
// day with an AD_COOLDOWN gap between claims. The authoritative check lives in
// the conditional update in the datastore; everything here is either a
// convenience read or a cheap early rejection.
type ServiceAdReward struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	limiter            interfaces.Limiter
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB

	serviceUser *ServiceUser
}

func NewServiceAdReward(container *do.Injector) (*ServiceAdReward, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
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

	serviceUser, err := do.Invoke[*ServiceUser](container)
	if err != nil {
		return nil, err
	}

	return &ServiceAdReward{container, rs, limiter, postgresDB, readonlyPostgresDB, serviceUser}, nil
}

// GateStatus derives the gate view from the user row. Advisory only; WatchAd
// re-checks everything inside the database.
func GateStatus(user *models.User, now time.Time) *models.AdGateStatus {
	watchedToday := 0
	cooldownRemaining := 0.0

	if user.LastAdWatched != nil {
		if !user.LastAdWatched.Before(pkg.StartOfToday(now)) {
			watchedToday = user.AdsWatchedToday
		}
		if remaining := AD_COOLDOWN - now.Sub(*user.LastAdWatched); remaining > 0 {
			cooldownRemaining = remaining.Seconds()
		}
	}

	remaining := AD_MAX_PER_DAY - watchedToday
	if remaining < 0 {
		remaining = 0
	}

	return &models.AdGateStatus{
		CanWatchAd:        remaining > 0 && cooldownRemaining == 0,
		AdsRemaining:      remaining,
		CooldownRemaining: cooldownRemaining,
	}
}

func (service *ServiceAdReward) GetGateStatus(ctx context.Context, userID string) (*models.AdGateStatus, error) {
	user, err := service.serviceUser.FindUserByIDNoCache(ctx, userID)
	if err != nil {
		return nil, err
	}

	return GateStatus(user, time.Now()), nil
}

// WatchAd claims one rewarded-ad credit. Returns ErrAdGateClosed when the cap
// or cooldown blocks the claim; the balance never moves in that case.
func (service *ServiceAdReward) WatchAd(ctx context.Context, userID string) (*models.AdGateStatus, error) {
	if err := service.limiter.Allow(ctx, LimitKeyAdWatch(userID), redis_rate.PerMinute(10)); err != nil {
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyUserAdReward(userID))
	if err := mutex.TryLock(); err != nil {
		return nil, ErrUserLock
	}
	//nolint:errcheck
	defer mutex.Unlock()

	now := time.Now()
	ok, err := datastore.ApplyAdReward(ctx, service.postgresDB, userID, AD_REWARD_GEMS, AD_MAX_PER_DAY, AD_COOLDOWN, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAdGateClosed
	}

	// Balance already moved in ApplyAdReward; the ledger row is bookkeeping
	// with a unique per-claim key.
	grant := &models.GemGrant{
		UserID:    userID,
		Gems:      AD_REWARD_GEMS,
		Action:    fmt.Sprintf("ad:%s", uuid.NewString()),
		CreatedAt: now,
	}
	if _, err := datastore.InsertGemGrant(ctx, service.postgresDB, grant); err != nil {
		log.Println(err)
	}

	if err := service.serviceUser.ClearUserCache(ctx, userID); err != nil {
		log.Println(err)
	}

	user, err := service.serviceUser.FindUserByIDNoCache(ctx, userID)
	if err != nil {
		return nil, err
	}

	return GateStatus(user, now), nil
}
