package datastore

import (
	"context"
	"strings"

	"chadder/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableStreamers(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Streamer)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Streamer)(nil)).Index("index_streamers_is_live").IfNotExists().Column("is_live").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetStreamer(ctx context.Context, db *bun.DB, username string) (*models.Streamer, error) {
	var streamer models.Streamer
	err := db.NewSelect().Model(&streamer).Where("username = ?", strings.ToLower(username)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &streamer, nil
}

func ListStreamers(ctx context.Context, db *bun.DB, usernames []string) ([]*models.Streamer, error) {
	lowered := make([]string, len(usernames))
	for i, u := range usernames {
		lowered[i] = strings.ToLower(u)
	}

	var streamers []*models.Streamer
	err := db.NewSelect().Model(&streamers).Where("username IN (?)", bun.In(lowered)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return streamers, nil
}

func ListAllStreamerUsernames(ctx context.Context, db *bun.DB) ([]string, error) {
	var usernames []string
	err := db.NewSelect().Model((*models.Streamer)(nil)).Column("username").Scan(ctx, &usernames)
	if err != nil {
		return nil, err
	}

	return usernames, nil
}

// UpsertStreamer refreshes the Twitch mirror row for one streamer.
func UpsertStreamer(ctx context.Context, db *bun.DB, streamer *models.Streamer) error {
	streamer.Username = strings.ToLower(streamer.Username)
	_, err := db.NewInsert().Model(streamer).
		On("CONFLICT (username) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Set("bio = EXCLUDED.bio").
		Set("profile_image_url = EXCLUDED.profile_image_url").
		Set("is_live = EXCLUDED.is_live").
		Set("viewer_count = EXCLUDED.viewer_count").
		Set("stream_title = EXCLUDED.stream_title").
		Set("game_name = EXCLUDED.game_name").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func CountStreamers(ctx context.Context, db *bun.DB) (int, error) {
	count, err := db.NewSelect().Model((*models.Streamer)(nil)).Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}
