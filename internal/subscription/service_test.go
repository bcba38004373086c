package subscription_test

import (
	"context"
	"errors"
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

func validParams() subscription.CreateParams {
	return subscription.CreateParams{
		Name:        "Netflix",
		Cost:        decimal.RequireFromString("15.99"),
		Currency:    "USD",
		Cycle:       subscription.CycleMonthly,
		NextBilling: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Category:    "Streaming",
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    func() subscription.CreateParams
		setupMock func(m *subscription.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams,
			setupMock: func(m *subscription.MockRepository) {
				m.EXPECT().
					CreateSubscription(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, sub *subscription.Subscription) error {
						sub.ID = uuid.New()
						sub.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "NegativeCost",
			params: func() subscription.CreateParams {
				p := validParams()
				p.Cost = decimal.RequireFromString("-1")
				return p
			},
			wantErr: true,
		},
		{
			name: "BadCurrency",
			params: func() subscription.CreateParams {
				p := validParams()
				p.Currency = "DOLLARS"
				return p
			},
			wantErr: true,
		},
		{
			name: "BadCycle",
			params: func() subscription.CreateParams {
				p := validParams()
				p.Cycle = "weekly"
				return p
			},
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: validParams,
			setupMock: func(m *subscription.MockRepository) {
				m.EXPECT().
					CreateSubscription(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := subscription.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := subscription.NewService(repo, bus.New[subscription.ChangeEvent]())
			got, err := svc.Create(context.Background(), "user-1", tt.params())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, subscription.StatusActive, got.Status)
			assert.Equal(t, "user-1", got.UserID)
		})
	}
}

func TestService_Create_PublishesChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := subscription.NewMockRepository(ctrl)
	repo.EXPECT().CreateSubscription(gomock.Any(), gomock.Any()).Return(nil)

	changes := bus.New[subscription.ChangeEvent]()

	var got []subscription.ChangeEvent

	changes.Subscribe(func(e subscription.ChangeEvent) { got = append(got, e) })

	svc := subscription.NewService(repo, changes)
	_, err := svc.Create(context.Background(), "user-1", validParams())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "user-1", got[0].UserID)
}

func TestService_ToggleStatus(t *testing.T) {
	type testCase struct {
		name string
		from subscription.Status
		want subscription.Status
	}

	tests := []testCase{
		{name: "ActiveToPaused", from: subscription.StatusActive, want: subscription.StatusPaused},
		{name: "PausedToActive", from: subscription.StatusPaused, want: subscription.StatusActive},
		{name: "CancelledToActive", from: subscription.StatusCancelled, want: subscription.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := subscription.NewMockRepository(ctrl)
			repo.EXPECT().
				GetSubscription(gomock.Any(), "user-1", id).
				Return(&subscription.Subscription{ID: id, UserID: "user-1", Status: tt.from}, nil)
			repo.EXPECT().
				UpdateStatus(gomock.Any(), "user-1", id, tt.want).
				Return(nil)

			svc := subscription.NewService(repo, bus.New[subscription.ChangeEvent]())
			sub, err := svc.ToggleStatus(context.Background(), "user-1", id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sub.Status)
		})
	}
}

func TestService_BulkDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	repo := subscription.NewMockRepository(ctrl)
	repo.EXPECT().
		DeleteSubscriptions(gomock.Any(), "user-1", ids).
		Return(int64(2), nil)

	changes := bus.New[subscription.ChangeEvent]()

	published := 0

	changes.Subscribe(func(subscription.ChangeEvent) { published++ })

	svc := subscription.NewService(repo, changes)

	deleted, err := svc.BulkDelete(context.Background(), "user-1", ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, published)

	// Empty input never touches the repository.
	deleted, err = svc.BulkDelete(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Equal(t, 1, published)
}

func TestService_Summarize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	subs := []*subscription.Subscription{
		{
			Name:        "Netflix",
			Cost:        decimal.RequireFromString("15.99"),
			Cycle:       subscription.CycleMonthly,
			Category:    "Streaming",
			Status:      subscription.StatusActive,
			NextBilling: now.AddDate(0, 0, 3),
		},
		{
			Name:        "Spotify",
			Cost:        decimal.RequireFromString("9.99"),
			Cycle:       subscription.CycleMonthly,
			Category:    "Streaming",
			Status:      subscription.StatusActive,
			NextBilling: now.AddDate(0, 0, 45),
		},
		{
			Name:        "Domain",
			Cost:        decimal.RequireFromString("120.00"),
			Cycle:       subscription.CycleAnnual,
			Status:      subscription.StatusActive,
			NextBilling: now.AddDate(0, 0, 10),
		},
		{
			Name:   "Gym",
			Cost:   decimal.RequireFromString("30.00"),
			Cycle:  subscription.CycleMonthly,
			Status: subscription.StatusPaused,
		},
		{
			Name:   "Old",
			Cost:   decimal.RequireFromString("5.00"),
			Cycle:  subscription.CycleMonthly,
			Status: subscription.StatusCancelled,
		},
	}

	repo := subscription.NewMockRepository(ctrl)
	repo.EXPECT().
		ListSubscriptions(gomock.Any(), "user-1", subscription.ListFilter{}).
		Return(subs, nil)

	svc := subscription.NewService(repo, bus.New[subscription.ChangeEvent]())

	summary, err := svc.Summarize(context.Background(), "user-1", now)
	require.NoError(t, err)

	// 15.99 + 9.99 + 120/12
	assert.Equal(t, "35.98", summary.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "431.76", summary.AnnualTotal.StringFixed(2))
	assert.Equal(t, 3, summary.ActiveCount)
	assert.Equal(t, 1, summary.PausedCount)
	assert.Equal(t, 1, summary.CancelledCount)

	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "Streaming", summary.Categories[0].Category)
	assert.Equal(t, "25.98", summary.Categories[0].MonthlyTotal.StringFixed(2))
	assert.Equal(t, 2, summary.Categories[0].Count)
	assert.Equal(t, "Uncategorized", summary.Categories[1].Category)

	// Spotify renews beyond the 30-day horizon.
	require.Len(t, summary.Upcoming, 2)
	assert.Equal(t, "Netflix", summary.Upcoming[0].Name)
	assert.Equal(t, "Domain", summary.Upcoming[1].Name)
}
