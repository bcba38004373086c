package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/subslayer/subslayer/internal/bus"
	"github.com/subslayer/subslayer/internal/subscription"
)

func TestService_CSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	subs := []*subscription.Subscription{
		{
			ID:          uuid.New(),
			UserID:      "user-1",
			Name:        "Netflix",
			Cost:        decimal.RequireFromString("15.99"),
			Currency:    "USD",
			Cycle:       subscription.CycleMonthly,
			NextBilling: time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC),
			Category:    "Streaming",
			Status:      subscription.StatusActive,
		},
		{
			ID:          uuid.New(),
			UserID:      "user-1",
			Name:        "Domain, the good one",
			Cost:        decimal.RequireFromString("12"),
			Currency:    "EUR",
			Cycle:       subscription.CycleAnnual,
			NextBilling: time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
			Status:      subscription.StatusPaused,
		},
	}

	repo := subscription.NewMockRepository(ctrl)
	repo.EXPECT().
		ListSubscriptions(gomock.Any(), "user-1", subscription.ListFilter{}).
		Return(subs, nil)

	svc := NewService(subscription.NewService(repo, bus.New[subscription.ChangeEvent]()))

	var buf bytes.Buffer
	require.NoError(t, svc.CSV(context.Background(), "user-1", subscription.ListFilter{}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "name,description,cost,currency,cycle,next_billing,category,status", lines[0])
	assert.Equal(t, "Netflix,,15.99,USD,monthly,2026-09-04,Streaming,active", lines[1])

	// Commas in names survive via quoting.
	assert.Equal(t, `"Domain, the good one",,12.00,EUR,annual,2026-12-01,,paused`, lines[2])
}
