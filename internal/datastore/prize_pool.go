package datastore

import (
	"context"
	"time"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePrizePool(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PrizePool)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrizePool)(nil)).Index("index_prize_pool_week_start").IfNotExists().Unique().Column("week_start").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetActivePrizePool(ctx context.Context, db *bun.DB) (*models.PrizePool, error) {
	var pool models.PrizePool
	err := db.NewSelect().Model(&pool).Where("is_active = ?", true).OrderExpr("week_start DESC").Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &pool, nil
}

// UpsertWeeklyPrizePool writes the recomputed amount for the week keyed by
// week_start. The amount is replaced wholesale, never incremented.
func UpsertWeeklyPrizePool(ctx context.Context, db *bun.DB, pool *models.PrizePool) error {
	_, err := db.NewInsert().Model(pool).
		On("CONFLICT (week_start) DO UPDATE").
		Set("week_end = EXCLUDED.week_end").
		Set("current_amount = EXCLUDED.current_amount").
		Set("is_active = EXCLUDED.is_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// DeactivatePoolsBefore closes out pools from finished weeks.
func DeactivatePoolsBefore(ctx context.Context, db *bun.DB, weekStart time.Time) error {
	_, err := db.NewUpdate().Model((*models.PrizePool)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("week_start < ?", weekStart).
		Where("is_active = ?", true).
		Exec(ctx)
	return err
}
