package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

type PrizePoolJob struct {
	Db *bun.DB
}

func NewPrizePoolJob(db *bun.DB) *PrizePoolJob {
	return &PrizePoolJob{
		Db: db,
	}
}

func (j *PrizePoolJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_PRIZE_POOL)
	if err != nil {
		fmt.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		fmt.Println("No timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("PrizePool Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.runScheduledTask()
}

// runScheduledTask closes pools from finished weeks and refreshes the running
// week's row from the vote ledger.
func (j *PrizePoolJob) runScheduledTask() {
	ctx := context.Background()
	now := time.Now()
	weekStart := pkg.StartOfWeek(now)

	if err := datastore.DeactivatePoolsBefore(ctx, j.Db, weekStart); err != nil {
		log.Println(err)
		return
	}

	weeklyVotes, err := datastore.SumAllVotesFromTime(ctx, j.Db, weekStart)
	if err != nil {
		log.Println(err)
		return
	}

	pool := &models.PrizePool{
		WeekStart:     weekStart,
		WeekEnd:       pkg.EndOfWeek(now),
		CurrentAmount: services.PoolAmount(weeklyVotes),
		IsActive:      true,
		UpdatedAt:     now,
	}

	if err := datastore.UpsertWeeklyPrizePool(ctx, j.Db, pool); err != nil {
		log.Println(err)
		return
	}

	log.Println("Prize pool refreshed:", "week:", weekStart.Format("2006-01-02"), "votes:", weeklyVotes, "amount:", pool.CurrentAmount)
}
