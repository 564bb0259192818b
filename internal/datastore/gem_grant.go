package datastore

import (
	"context"
	"time"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableGemGrant(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.GemGrant)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.GemGrant)(nil)).Index("index_gem_grant_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.GemGrant)(nil)).Index("index_gem_grant_user_id_action").IfNotExists().Unique().Column("user_id", "action").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.GemGrant)(nil)).Index("index_gem_grant_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertGemGrant appends a grant row. The unique (user_id, action) index makes
// replays of the same action key no-ops; the return value reports whether this
// call actually inserted the row, and callers credit the balance only then.
func InsertGemGrant(ctx context.Context, db bun.IDB, grant *models.GemGrant) (bool, error) {
	res, err := db.NewInsert().Model(grant).On("CONFLICT (user_id, action) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func GetGrantByAction(ctx context.Context, db *bun.DB, userID string, action string) (*models.GemGrant, error) {
	var grant models.GemGrant
	err := db.NewSelect().Model(&grant).Where("user_id = ? AND action = ?", userID, action).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &grant, nil
}

func GetUserTotalGrant(ctx context.Context, db *bun.DB, userID string) (int, error) {
	var total int
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(gems), 0)").
		Model((*models.GemGrant)(nil)).
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func GetUserTotalGrantFromTime(ctx context.Context, db *bun.DB, userID string, from time.Time) (int, error) {
	var total int
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(gems), 0)").
		Model((*models.GemGrant)(nil)).
		Where("user_id = ?", userID).
		Where("created_at >= ?", from).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
