package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/repo"
)

// BacklogReporter periodically publishes how many achievements wait for
// review and how long the oldest one has waited. It only reads.
type BacklogReporter struct {
	achievements repo.AchievementRepository
	deps         Deps
	timeout      time.Duration
}

func NewBacklogReporter(achievements repo.AchievementRepository, deps Deps) *BacklogReporter {
	return &BacklogReporter{
		achievements: achievements,
		deps:         deps.withDefaults(),
		timeout:      30 * time.Second,
	}
}

// Report takes one backlog reading.
func (r *BacklogReporter) Report(ctx context.Context) error {
	count, oldest, err := r.achievements.PendingBacklog(ctx)
	if err != nil {
		r.deps.Logger.ErrorContext(ctx, "failed to read review backlog", "error", err)
		return storeError("review backlog", err)
	}

	var age time.Duration
	if oldest != nil {
		age = r.deps.Clock().Sub(*oldest)
		if age < 0 {
			age = 0
		}
	}
	r.deps.Metrics.PendingBacklog(count, age)
	r.deps.Logger.InfoContext(ctx, "review backlog",
		"pending", count, "oldest_age", age.Round(time.Second).String())
	return nil
}

// Start schedules Report every interval and returns the running scheduler.
// The caller owns Shutdown.
func (r *BacklogReporter) Start(interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("backlog interval must be positive, got %s", interval)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()
			_ = r.Report(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule backlog job: %w", err)
	}

	sched.Start()
	return sched, nil
}
