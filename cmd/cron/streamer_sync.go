package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"chadder/internal/datastore"
	"chadder/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type StreamerSyncJob struct {
	Container *do.Injector
	Db        *bun.DB
}

func NewStreamerSyncJob(container *do.Injector, db *bun.DB) *StreamerSyncJob {
	return &StreamerSyncJob{
		Container: container,
		Db:        db,
	}
}

func (j *StreamerSyncJob) Start(cronRunner *cron.Cron) {
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, services.CONFIG_CRONJOB_TIME_STREAMER_SYNC)
	if err != nil {
		fmt.Println(err)
		return
	}

	if timeline == nil || timeline.Value == "" {
		fmt.Println("No timeline found")
		return
	}

	_, err = cronRunner.AddFunc(timeline.Value, j.runScheduledTask)
	log.Println("StreamerSync Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", timeline.Value, err)
	j.runScheduledTask()
}

// runScheduledTask refreshes the Twitch mirror (profiles and live state) for
// every known streamer.
func (j *StreamerSyncJob) runScheduledTask() {
	ctx := context.Background()

	serviceTwitch, err := do.Invoke[*services.ServiceTwitch](j.Container)
	if err != nil {
		log.Println(err)
		return
	}

	updated, err := serviceTwitch.RefreshStreamers(ctx)
	if err != nil {
		log.Println(err)
		return
	}

	log.Println("Streamer sync done:", "updated:", updated)
}
