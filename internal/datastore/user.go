package datastore

import (
	"context"
	"strings"
	"time"

	"chadder/internal/models"
	"chadder/internal/pkg"

	"github.com/uptrace/bun"
)

func CreateTableUsers(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_email").IfNotExists().Unique().Column("email").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_stripe_customer_id").IfNotExists().Column("stripe_customer_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindUserByID(ctx context.Context, db *bun.DB, userID string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *bun.DB, email string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("email = ?", strings.ToLower(email)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByStripeCustomerID(ctx context.Context, db *bun.DB, customerID string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("stripe_customer_id = ?", customerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *bun.DB, user *models.User) (*models.User, error) {
	_, err := db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func UpdateUserProfile(ctx context.Context, db *bun.DB, user *models.User) error {
	_, err := db.NewUpdate().Model(user).
		Column("display_name", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func SetStripeCustomerID(ctx context.Context, db *bun.DB, userID string, customerID string) error {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("stripe_customer_id = ?", customerID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

// SetSubscriptionState updates the denormalized tier/status pair on the user row.
func SetSubscriptionState(ctx context.Context, db *bun.DB, userID string, tier string, status string) error {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("subscription_tier = ?", tier).
		Set("subscription_status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

// CreditGems adds gems to a user's balance. Callers record the matching
// gem_grant row first; see InsertGemGrant.
func CreditGems(ctx context.Context, db bun.IDB, userID string, gems int) error {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("gem_balance = gem_balance + ?", gems).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

// DebitGems decrements the balance only when it covers the amount. The check
// and the write are a single statement, so two concurrent debits can never
// both pass the balance check. Returns false when the balance was short.
func DebitGems(ctx context.Context, db bun.IDB, userID string, amount int) (bool, error) {
	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("gem_balance = gem_balance - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Where("gem_balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// ApplyAdReward grants gems and advances the ad counters in one conditional
// statement. The WHERE clause enforces the daily cap and the cooldown, so a
// client that skips the gate check cannot over-claim. The daily counter
// resets when the previous grant happened before UTC midnight.
func ApplyAdReward(ctx context.Context, db *bun.DB, userID string, gems int, maxPerDay int, cooldown time.Duration, now time.Time) (bool, error) {
	midnight := pkg.StartOfToday(now)

	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("gem_balance = gem_balance + ?", gems).
		Set("ads_watched_today = CASE WHEN last_ad_watched IS NULL OR last_ad_watched < ? THEN 1 ELSE ads_watched_today + 1 END", midnight).
		Set("last_ad_watched = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", userID).
		Where("last_ad_watched IS NULL OR last_ad_watched <= ?", now.Add(-cooldown)).
		Where("last_ad_watched IS NULL OR last_ad_watched < ? OR ads_watched_today < ?", midnight, maxPerDay).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func CountUsers(ctx context.Context, db *bun.DB) (int, error) {
	count, err := db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func DeleteUser(ctx context.Context, db *bun.DB, userID string) error {
	_, err := db.NewDelete().Model((*models.User)(nil)).Where("id = ?", userID).Exec(ctx)
	return err
}
