package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/subslayer/subslayer/internal/notification"
)

type fakeUsers struct {
	ids []string
	err error
}

func (f fakeUsers) UserIDs(context.Context) ([]string, error) {
	return f.ids, f.err
}

type fakeEngine struct {
	swept   []string
	digest  []string
	report  []string
	failFor string
}

func (f *fakeEngine) Sweep(_ context.Context, userID string, _ time.Time) ([]notification.Item, error) {
	if userID == f.failFor {
		return nil, errors.New("boom")
	}

	f.swept = append(f.swept, userID)

	return []notification.Item{{ID: "renewal-" + userID + "-3"}}, nil
}

func (f *fakeEngine) WeeklyDigest(_ context.Context, userID string, _ time.Time) ([]notification.Item, error) {
	f.digest = append(f.digest, userID)
	return nil, nil
}

func (f *fakeEngine) MonthlyReport(_ context.Context, userID string, _ time.Time) ([]notification.Item, error) {
	f.report = append(f.report, userID)
	return nil, nil
}

func TestJobs_Sweep_CoversAllUsers(t *testing.T) {
	engine := &fakeEngine{}
	jobs := NewJobs(fakeUsers{ids: []string{"a", "b", "c"}}, engine)

	jobs.Sweep()

	assert.Equal(t, []string{"a", "b", "c"}, engine.swept)
}

func TestJobs_Sweep_OneFailureDoesNotStallOthers(t *testing.T) {
	engine := &fakeEngine{failFor: "b"}
	jobs := NewJobs(fakeUsers{ids: []string{"a", "b", "c"}}, engine)

	jobs.Sweep()

	assert.Equal(t, []string{"a", "c"}, engine.swept)
}

func TestJobs_DigestAndReport(t *testing.T) {
	engine := &fakeEngine{}
	jobs := NewJobs(fakeUsers{ids: []string{"a"}}, engine)

	jobs.WeeklyDigest()
	jobs.MonthlyReport()

	assert.Equal(t, []string{"a"}, engine.digest)
	assert.Equal(t, []string{"a"}, engine.report)
}

func TestJobs_UserListFailure(t *testing.T) {
	engine := &fakeEngine{}
	jobs := NewJobs(fakeUsers{err: errors.New("db down")}, engine)

	jobs.Sweep()

	assert.Empty(t, engine.swept)
}
