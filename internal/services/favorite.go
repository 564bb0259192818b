package services

import (
	"context"
	"log"
	"time"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/pkg/caching"
)

type ServiceFavorite struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceFavorite(container *do.Injector) (*ServiceFavorite, error) {
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

	return &ServiceFavorite{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// AddFavorite is idempotent: favoriting twice leaves one row.
func (service *ServiceFavorite) AddFavorite(ctx context.Context, userID string, streamer string) error {
	favorite := &models.UserFavorite{
		UserID:    userID,
		Streamer:  streamer,
		CreatedAt: time.Now(),
	}
	if err := datastore.InsertUserFavorite(ctx, service.postgresDB, favorite); err != nil {
		return err
	}

	if err := service.cache.Delete(ctx, DBKeyUserFavorites(userID)); err != nil {
		log.Println(err)
	}

	return nil
}

func (service *ServiceFavorite) RemoveFavorite(ctx context.Context, userID string, streamer string) error {
	if err := datastore.DeleteUserFavorite(ctx, service.postgresDB, userID, streamer); err != nil {
		return err
	}

	if err := service.cache.Delete(ctx, DBKeyUserFavorites(userID)); err != nil {
		log.Println(err)
	}

	return nil
}

func (service *ServiceFavorite) GetFavorites(ctx context.Context, userID string) ([]*models.UserFavorite, error) {
	callback := func() ([]*models.UserFavorite, error) {
		return datastore.GetUserFavorites(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserFavorites(userID), CACHE_TTL_1_MIN, callback)
}
