package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/subslayer/subslayer/internal/notification"
)

// UserSource lists the users the periodic jobs iterate over.
type UserSource interface {
	UserIDs(ctx context.Context) ([]string, error)
}

// Engine is the per-user notification generation the jobs drive.
type Engine interface {
	Sweep(ctx context.Context, userID string, now time.Time) ([]notification.Item, error)
	WeeklyDigest(ctx context.Context, userID string, now time.Time) ([]notification.Item, error)
	MonthlyReport(ctx context.Context, userID string, now time.Time) ([]notification.Item, error)
}

// Jobs holds the periodic work: the notification sweep and the digest runs.
// Each job swallows per-user failures so one broken account never stalls the
// rest.
type Jobs struct {
	users  UserSource
	engine Engine
}

func NewJobs(users UserSource, engine Engine) *Jobs {
	return &Jobs{users: users, engine: engine}
}

func (j *Jobs) Sweep() {
	j.forEachUser("notification sweep", j.engine.Sweep)
}

func (j *Jobs) WeeklyDigest() {
	j.forEachUser("weekly digest", j.engine.WeeklyDigest)
}

func (j *Jobs) MonthlyReport() {
	j.forEachUser("monthly report", j.engine.MonthlyReport)
}

func (j *Jobs) forEachUser(job string, run func(ctx context.Context, userID string, now time.Time) ([]notification.Item, error)) {
	ctx := context.Background()
	now := time.Now()

	userIDs, err := j.users.UserIDs(ctx)
	if err != nil {
		slog.Error("listing users", "job", job, "error", err)
		return
	}

	created := 0

	for _, userID := range userIDs {
		items, err := run(ctx, userID, now)
		if err != nil {
			slog.Error("running job for user", "job", job, "user", userID, "error", err)
			continue
		}

		created += len(items)
	}

	slog.Info("job finished", "job", job, "users", len(userIDs), "created", created)
}
