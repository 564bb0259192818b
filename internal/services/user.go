package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/pkg/caching"
)

// Gems granted once at signup, recorded in the grant ledger like every other
// credit so the votes-vs-grants invariant holds from the first vote.
const SIGNUP_GEMS = 25

type ServiceUser struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
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

	return &ServiceUser{container, db, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServiceUser) FindOrCreateUser(ctx context.Context, userAuth *models.UserFromAuth) (*models.User, error) {
	if userAuth == nil {
		return nil, errors.New("userAuth is nil")
	}

	user, _ := service.FindUserByID(ctx, userAuth.ID)
	if user != nil {
		if user.DisplayName != userAuth.DisplayName && userAuth.DisplayName != "" {
			user.DisplayName = userAuth.DisplayName
			user.UpdatedAt = time.Now()
			if err := datastore.UpdateUserProfile(ctx, service.postgresDB, user); err != nil {
				return nil, err
			}
			_ = service.cache.Delete(ctx, DBKeyUser(user.ID))
		}
		return user, nil
	}

	now := time.Now()
	newUser := &models.User{
		ID:                 userAuth.ID,
		Email:              strings.ToLower(userAuth.Email),
		DisplayName:        userAuth.DisplayName,
		SubscriptionTier:   models.TIER_FREE,
		SubscriptionStatus: models.SUBSCRIPTION_STATUS_INACTIVE,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	log.Println("Create new user:", "id:", newUser.ID, "email:", newUser.Email)
	user, err := datastore.CreateUser(ctx, service.postgresDB, newUser)
	if err != nil {
		return nil, err
	}

	user.IsNewUser = true

	_, err = service.CreditGems(ctx, user.ID, SIGNUP_GEMS, "signup")
	if err != nil {
		return user, err
	}
	user.GemBalance = SIGNUP_GEMS

	return user, nil
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUser(userID), CACHE_TTL_5_MINS, callback)
}

func (service *ServiceUser) FindUserByIDNoCache(ctx context.Context, userID string) (*models.User, error) {
	return datastore.FindUserByID(ctx, service.readonlyPostgresDB, userID)
}

func (service *ServiceUser) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByEmail(ctx, service.readonlyPostgresDB, email)
	}
	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserByEmail(email), CACHE_TTL_5_MINS, callback)
}

// CreditGems records a grant and applies it to the balance. The action key
// dedupes replays: when the grant ledger already holds (userID, action) the
// balance is left untouched and false is returned.
func (service *ServiceUser) CreditGems(ctx context.Context, userID string, gems int, action string) (bool, error) {
	granted := false
	err := service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		grant := &models.GemGrant{
			UserID:    userID,
			Gems:      gems,
			Action:    action,
			CreatedAt: time.Now(),
		}

		inserted, err := datastore.InsertGemGrant(ctx, tx, grant)
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		if err := datastore.CreditGems(ctx, tx, userID, gems); err != nil {
			return err
		}

		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if granted {
		if err := service.ClearUserCache(ctx, userID); err != nil {
			log.Println(err)
		}
	}

	return granted, nil
}

// GetTotalGrant sums every credit ever applied to the user.
func (service *ServiceUser) GetTotalGrant(ctx context.Context, userID string) (int, error) {
	return datastore.GetUserTotalGrant(ctx, service.readonlyPostgresDB, userID)
}

func (service *ServiceUser) ClearUserCache(ctx context.Context, userID string) error {
	if err := service.cache.Delete(ctx, DBKeyUser(userID)); err != nil {
		return err
	}

	return service.cache.Delete(ctx, DBKeyUserWindows(userID))
}

func (service *ServiceUser) DeleteUser(ctx context.Context, userID string) error {
	if err := datastore.DeleteUser(ctx, service.postgresDB, userID); err != nil {
		return err
	}

	return service.ClearUserCache(ctx, userID)
}
