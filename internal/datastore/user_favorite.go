package datastore

import (
	"context"
	"strings"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserFavorites(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserFavorite)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserFavorite)(nil)).Index("index_user_favorites_user_id_streamer").IfNotExists().Unique().Column("user_id", "streamer").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertUserFavorite(ctx context.Context, db *bun.DB, favorite *models.UserFavorite) error {
	favorite.Streamer = strings.ToLower(favorite.Streamer)
	_, err := db.NewInsert().Model(favorite).On("CONFLICT (user_id, streamer) DO NOTHING").Exec(ctx)
	return err
}

func DeleteUserFavorite(ctx context.Context, db *bun.DB, userID string, streamer string) error {
	_, err := db.NewDelete().Model((*models.UserFavorite)(nil)).
		Where("user_id = ?", userID).
		Where("streamer = ?", strings.ToLower(streamer)).
		Exec(ctx)
	return err
}

func GetUserFavorites(ctx context.Context, db *bun.DB, userID string) ([]*models.UserFavorite, error) {
	var favorites []*models.UserFavorite
	err := db.NewSelect().Model(&favorites).Where("user_id = ?", userID).OrderExpr("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return favorites, nil
}
