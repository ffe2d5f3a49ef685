// Package trigger schedules the recurring background jobs that don't run inline with a
// request: today, just the nightly karma batch.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// karmaBatcher is satisfied by gamification.Service; declared locally so this package
// doesn't pull in gamification's own repository/notification wiring.
type karmaBatcher interface {
	RunDailyBatch(ctx context.Context) error
}

// DefaultKarmaSchedule is the fallback cron expression NewCronScheduler uses when given an
// empty schedule: every day at 02:00 UTC, a time chosen to land well outside normal peak
// usage. The server passes config's AGORA_KARMA_BATCH_SCHEDULE, whose own default is
// 03:00 UTC.
const DefaultKarmaSchedule = "0 0 2 * * *"

// CronScheduler runs the nightly karma batch job. Modeled on the teacher's CronScheduler
// lifecycle (second-precision cron pinned to UTC, explicit Start/Stop), reduced to a single
// fixed job since this domain has exactly one cron-scheduled job rather than a
// user-configurable trigger table.
type CronScheduler struct {
	gamification karmaBatcher
	schedule     string
	cron         *cron.Cron
}

// NewCronScheduler creates a scheduler for the nightly karma batch. An empty schedule falls
// back to DefaultKarmaSchedule.
func NewCronScheduler(gamification karmaBatcher, schedule string) *CronScheduler {
	if schedule == "" {
		schedule = DefaultKarmaSchedule
	}
	c := cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC))
	return &CronScheduler{gamification: gamification, schedule: schedule, cron: c}
}

// Start registers the karma batch job and starts the cron loop.
func (cs *CronScheduler) Start() error {
	_, err := cs.cron.AddFunc(cs.schedule, cs.runKarmaBatch)
	if err != nil {
		return fmt.Errorf("schedule karma batch %q: %w", cs.schedule, err)
	}
	cs.cron.Start()
	return nil
}

// Stop stops the cron loop, waiting for any in-flight job to finish.
func (cs *CronScheduler) Stop() {
	ctx := cs.cron.Stop()
	<-ctx.Done()
}

func (cs *CronScheduler) runKarmaBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := cs.gamification.RunDailyBatch(ctx); err != nil {
		fmt.Printf("karma batch run failed: %v\n", err)
	}
}
