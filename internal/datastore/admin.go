package datastore

import (
	"context"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAdmins(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Admin)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Admin)(nil)).Index("index_admins_api_key").IfNotExists().Unique().Column("api_key").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindAdminByAPIKey(ctx context.Context, db *bun.DB, apiKey string) (*models.Admin, error) {
	var admin models.Admin
	err := db.NewSelect().Model(&admin).Where("api_key = ?", apiKey).Where("enabled = ?", true).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &admin, nil
}
