package datastore

import (
	"context"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableSubscriptions(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Subscription)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Subscription)(nil)).Index("index_subscriptions_user_id").IfNotExists().Unique().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// UpsertSubscription keeps one row per user, replaced on each billing event.
func UpsertSubscription(ctx context.Context, db *bun.DB, sub *models.Subscription) error {
	_, err := db.NewInsert().Model(sub).
		On("CONFLICT (user_id) DO UPDATE").
		Set("tier = EXCLUDED.tier").
		Set("amount_per_week = EXCLUDED.amount_per_week").
		Set("status = EXCLUDED.status").
		Set("stripe_subscription_id = EXCLUDED.stripe_subscription_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func GetSubscriptionByUserID(ctx context.Context, db *bun.DB, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.NewSelect().Model(&sub).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func CountActiveSubscriptions(ctx context.Context, db *bun.DB) (int, error) {
	count, err := db.NewSelect().Model((*models.Subscription)(nil)).
		Where("status = ?", models.SUBSCRIPTION_STATUS_ACTIVE).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// SumActiveWeeklyRevenue totals amount_per_week across active subscriptions.
func SumActiveWeeklyRevenue(ctx context.Context, db *bun.DB) (float64, error) {
	var total float64
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(amount_per_week), 0)").
		Model((*models.Subscription)(nil)).
		Where("status = ?", models.SUBSCRIPTION_STATUS_ACTIVE).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
