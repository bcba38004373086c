package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subslayer/subslayer/internal/notification"
	"github.com/subslayer/subslayer/internal/settings"
	"github.com/subslayer/subslayer/internal/subscription"
)

func seedInbox(t *testing.T, repo *memRepo, subs ...*subscription.Subscription) []notification.Item {
	t.Helper()

	engine := notification.NewEngine(staticSubs{subs: subs},
		staticSettings{prefs: settings.Defaults()}, repo, nil, nil)

	created, err := engine.Sweep(context.Background(), "user-1", testNow)
	require.NoError(t, err)

	return created
}

func TestService_MarkRead_OnlyFlagsTarget(t *testing.T) {
	repo := newMemRepo()
	created := seedInbox(t, repo,
		newSub("Netflix", "15.99", subscription.StatusActive, testNow.AddDate(0, 0, 3)),
		newSub("Spotify", "9.99", subscription.StatusActive, testNow.AddDate(0, 0, 1)),
	)
	require.Len(t, created, 2)

	svc := notification.NewService(repo)

	items, err := svc.MarkRead(context.Background(), "user-1", created[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, it := range items {
		if it.ID == created[0].ID {
			assert.True(t, it.Read)
		} else {
			assert.False(t, it.Read)
		}
	}
}

func TestService_MarkRead_DoesNotAffectDeduplication(t *testing.T) {
	sub := newSub("Netflix", "15.99", subscription.StatusActive, testNow.AddDate(0, 0, 3))

	repo := newMemRepo()
	created := seedInbox(t, repo, sub)
	require.Len(t, created, 1)

	svc := notification.NewService(repo)
	_, err := svc.MarkRead(context.Background(), "user-1", created[0].ID)
	require.NoError(t, err)

	engine := notification.NewEngine(staticSubs{subs: []*subscription.Subscription{sub}},
		staticSettings{prefs: settings.Defaults()}, repo, nil, nil)

	again, err := engine.Sweep(context.Background(), "user-1", testNow)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestService_MarkAllRead(t *testing.T) {
	repo := newMemRepo()
	seedInbox(t, repo,
		newSub("Netflix", "15.99", subscription.StatusActive, testNow.AddDate(0, 0, 3)),
		newSub("Gym", "30.00", subscription.StatusActive, testNow.AddDate(0, 0, -2)),
	)

	svc := notification.NewService(repo)

	items, err := svc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)

	for _, it := range items {
		assert.True(t, it.Read)
	}
}

func TestService_Delete_RemovesOnlyTarget(t *testing.T) {
	repo := newMemRepo()
	created := seedInbox(t, repo,
		newSub("Netflix", "15.99", subscription.StatusActive, testNow.AddDate(0, 0, 3)),
		newSub("Spotify", "9.99", subscription.StatusActive, testNow.AddDate(0, 0, 1)),
	)
	require.Len(t, created, 2)

	svc := notification.NewService(repo)

	items, err := svc.Delete(context.Background(), "user-1", created[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created[1].ID, items[0].ID)
}

func TestService_Clear_ThenSweepRecreates(t *testing.T) {
	sub := newSub("Netflix", "15.99", subscription.StatusActive, testNow.AddDate(0, 0, 3))

	repo := newMemRepo()
	created := seedInbox(t, repo, sub)
	require.Len(t, created, 1)

	svc := notification.NewService(repo)

	items, err := svc.Clear(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	engine := notification.NewEngine(staticSubs{subs: []*subscription.Subscription{sub}},
		staticSettings{prefs: settings.Defaults()}, repo, nil, nil)

	recreated, err := engine.Sweep(context.Background(), "user-1", testNow)
	require.NoError(t, err)
	require.Len(t, recreated, 1)
	assert.Equal(t, created[0].ID, recreated[0].ID)
}

func TestService_List_SurvivesSubscriptionDeletion(t *testing.T) {
	sub := newSub("Netflix", "15.99", subscription.StatusActive, testNow.AddDate(0, 0, 3))

	repo := newMemRepo()
	created := seedInbox(t, repo, sub)
	require.Len(t, created, 1)

	// The subscription is gone; the notification keeps its own copy of the
	// name and stays listed.
	engine := notification.NewEngine(staticSubs{},
		staticSettings{prefs: settings.Defaults()}, repo, nil, nil)

	_, err := engine.Sweep(context.Background(), "user-1", testNow)
	require.NoError(t, err)

	svc := notification.NewService(repo)

	items, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Netflix", items[0].Subscription.Name)
}
