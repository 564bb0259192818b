package datastore

import (
	"context"
	"database/sql"
	"time"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableVotes(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Vote)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Vote)(nil)).Index("index_votes_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Vote)(nil)).Index("index_votes_streamer").IfNotExists().Column("streamer").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Vote)(nil)).Index("index_votes_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertVoteWithDebit appends a ledger row and debits the balance as one
// transaction. Returns false without writing anything when the balance does
// not cover the amount.
func InsertVoteWithDebit(ctx context.Context, db *bun.DB, vote *models.Vote) (bool, error) {
	ok := false
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		debited, err := DebitGems(ctx, tx, vote.UserID, vote.Amount)
		if err != nil {
			return err
		}
		if !debited {
			return nil
		}

		_, err = tx.NewInsert().Model(vote).Exec(ctx)
		if err != nil {
			return err
		}

		ok = true
		return nil
	})

	return ok, err
}

// SumVotesForStreamer totals the ledger for one streamer from a window start.
// A nil from means all-time.
func SumVotesForStreamer(ctx context.Context, db *bun.DB, streamer string, from *time.Time) (int, error) {
	q := db.NewSelect().
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Model((*models.Vote)(nil)).
		Where("streamer = ?", streamer)
	if from != nil {
		q = q.Where("created_at >= ?", from)
	}

	var total int
	err := q.Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func SumVotesForUser(ctx context.Context, db *bun.DB, userID string, from *time.Time) (int, error) {
	q := db.NewSelect().
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Model((*models.Vote)(nil)).
		Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("created_at >= ?", from)
	}

	var total int
	err := q.Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// SumAllVotesFromTime totals the whole ledger from a window start. Feeds the
// prize-pool calculator.
func SumAllVotesFromTime(ctx context.Context, db *bun.DB, from time.Time) (int, error) {
	var total int
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Model((*models.Vote)(nil)).
		Where("created_at >= ?", from).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func GetStreamerTotalsFromTime(ctx context.Context, db *bun.DB, from *time.Time, limit, offset int) ([]*models.StreamerTotal, error) {
	var totals []*models.StreamerTotal
	q := db.NewSelect().
		ColumnExpr("streamer").
		ColumnExpr("SUM(amount) as total_votes").
		TableExpr("votes").
		GroupExpr("streamer").
		OrderExpr("total_votes DESC").
		Limit(limit).
		Offset(offset)
	if from != nil {
		q = q.Where("created_at >= ?", from)
	}

	err := q.Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}

	return totals, nil
}

func GetSupporterTotalsFromTime(ctx context.Context, db *bun.DB, from *time.Time, limit, offset int) ([]*models.SupporterTotal, error) {
	var totals []*models.SupporterTotal
	q := db.NewSelect().
		ColumnExpr("user_id").
		ColumnExpr("SUM(amount) as total_votes").
		TableExpr("votes").
		GroupExpr("user_id").
		OrderExpr("total_votes DESC").
		Limit(limit).
		Offset(offset)
	if from != nil {
		q = q.Where("created_at >= ?", from)
	}

	err := q.Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}

	return totals, nil
}

func GetVotesByUser(ctx context.Context, db *bun.DB, userID string, limit, offset int) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := db.NewSelect().Model(&votes).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return votes, nil
}
