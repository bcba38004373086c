package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Schedules holds the cron expressions for the periodic jobs.
type Schedules struct {
	Sweep  string
	Digest string
	Report string
}

type Scheduler struct {
	cron      *cron.Cron
	jobs      *Jobs
	schedules Schedules
}

func New(jobs *Jobs, schedules Schedules) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))

	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.Recover(cronLogger))),
		jobs:      jobs,
		schedules: schedules,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.add("notification sweep", s.schedules.Sweep, s.jobs.Sweep)
	s.add("weekly digest", s.schedules.Digest, s.jobs.WeeklyDigest)
	s.add("monthly report", s.schedules.Report, s.jobs.MonthlyReport)

	s.cron.Start()
}

func (s *Scheduler) add(name, schedule string, job func()) {
	if _, err := s.cron.AddFunc(schedule, job); err != nil {
		slog.Error("failed to schedule job", "job", name, "schedule", schedule, "error", err)
		return
	}

	slog.Info("scheduled job", "job", name, "schedule", schedule)
}

// Stop stops the cron loop. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
