package cron

import (
	"context"
	"time"

	"kobovault/internal/config"
	"kobovault/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// StartCronJob schedules the dead-letter queue monitor. Dead-lettered
// messages are human-triage only, so all the job does is make sure a
// backlog never sits unnoticed.
func StartCronJob(client *redis.Client) *cron.Cron {
	c := cron.New()

	// Runs every 10 minutes — report dead-letter backlog
	_, err := c.AddFunc("*/10 * * * *", func() {
		if err := ReportDeadLetterBacklog(client); err != nil {
			utils.Logger.Errorf("Cron job failed to inspect dead-letter queue: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule dead-letter monitor: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (dead-letter monitor every 10m)")
	return c
}

func ReportDeadLetterBacklog(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	depth, err := client.LLen(ctx, config.QueueDeadLetter).Result()
	if err != nil {
		return err
	}

	if depth > 0 {
		utils.Logger.Warnf("💀 %d message(s) waiting in %s, manual triage needed", depth, config.QueueDeadLetter)
	}
	return nil
}
