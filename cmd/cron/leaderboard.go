package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"chadder/internal/datastore"
	"chadder/internal/datastore/redis_store"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_LEADERBOARD)
	if err != nil {
		fmt.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		fmt.Println("No timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("Leaderboard Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.runScheduledTask()
}

// runScheduledTask rebuilds every board from the vote ledger. The windowed
// boards shed finished-window entries here; inline ZINCRBY bumps keep them
// fresh between runs.
func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	now := time.Now()
	today := pkg.StartOfToday(now)
	week := pkg.StartOfWeek(now)

	boards := []struct {
		name string
		from *time.Time
	}{
		{services.LEADERBOARD_STREAMERS_TODAY, &today},
		{services.LEADERBOARD_STREAMERS_WEEKLY, &week},
		{services.LEADERBOARD_STREAMERS_ALLTIME, nil},
	}

	for _, board := range boards {
		j.rebuildStreamerBoard(ctx, board.name, board.from)
	}

	j.rebuildSupporterBoard(ctx, &week)
}

func (j *LeaderboardJob) rebuildStreamerBoard(ctx context.Context, name string, from *time.Time) {
	if err := redis_store.ClearLeaderboard(ctx, j.Redis, name); err != nil {
		log.Println(err)
		return
	}

	limit := 100
	offset := 0
	count := 0

	for {
		totals, err := datastore.GetStreamerTotalsFromTime(ctx, j.Db, from, limit, offset)
		offset += limit
		if err != nil {
			log.Println(err)
			continue
		}

		if len(totals) == 0 {
			break
		}

		for _, total := range totals {
			_, err := redis_store.SetLeaderboard(ctx, j.Redis, name, &models.LeaderboardItem{
				Member: total.Streamer,
				Score:  float64(total.TotalVotes),
			})
			if err != nil {
				log.Println(err)
			}
		}

		count += len(totals)
	}

	log.Println("Rebuilt leaderboard:", name, "entries:", count)
}

func (j *LeaderboardJob) rebuildSupporterBoard(ctx context.Context, from *time.Time) {
	if err := redis_store.ClearLeaderboard(ctx, j.Redis, services.LEADERBOARD_SUPPORTERS_WEEKLY); err != nil {
		log.Println(err)
		return
	}

	limit := 100
	offset := 0
	count := 0

	for {
		totals, err := datastore.GetSupporterTotalsFromTime(ctx, j.Db, from, limit, offset)
		offset += limit
		if err != nil {
			log.Println(err)
			continue
		}

		if len(totals) == 0 {
			break
		}

		for _, total := range totals {
			_, err := redis_store.SetLeaderboard(ctx, j.Redis, services.LEADERBOARD_SUPPORTERS_WEEKLY, &models.LeaderboardItem{
				Member: total.UserID,
				Score:  float64(total.TotalVotes),
			})
			if err != nil {
				log.Println(err)
			}
		}

		count += len(totals)
	}

	log.Println("Rebuilt leaderboard:", services.LEADERBOARD_SUPPORTERS_WEEKLY, "entries:", count)
}
