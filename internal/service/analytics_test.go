package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarochkin/keebshop/internal/models"
)

func TestPercentChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  int64
		previous int64
		want     float64
	}{
		{name: "zero prior, positive current", current: 500, previous: 0, want: 100},
		{name: "zero prior, zero current", current: 0, previous: 0, want: 0},
		{name: "growth", current: 150, previous: 100, want: 50},
		{name: "decline", current: 50, previous: 100, want: -50},
		{name: "positive prior, zero current", current: 0, previous: 100, want: -100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, PercentChange(tt.current, tt.previous), 1e-9)
		})
	}
}

func TestSummarize_SplitsPeriods(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	u1, u2 := uuid.New(), uuid.New()

	orders := []models.Order{
		{UserID: u1, TotalAmount: 1000, CreatedAt: now.AddDate(0, 0, -5)},
		{UserID: u1, TotalAmount: 2000, CreatedAt: now.AddDate(0, 0, -10)},
		{UserID: u2, TotalAmount: 500, CreatedAt: now.AddDate(0, 0, -40)},
		// outside both windows
		{UserID: u2, TotalAmount: 9999, CreatedAt: now.AddDate(0, 0, -90)},
	}

	s := Summarize(orders, now)

	assert.EqualValues(t, 3000, s.Revenue.Current)
	assert.EqualValues(t, 500, s.Revenue.Previous)
	assert.InDelta(t, 500, s.Revenue.ChangePct, 1e-9)

	assert.EqualValues(t, 2, s.Orders.Current)
	assert.EqualValues(t, 1, s.Orders.Previous)

	assert.EqualValues(t, 1, s.ActiveUsers.Current, "same user twice counts once")
	assert.EqualValues(t, 1, s.ActiveUsers.Previous)
}

func TestSummarize_ZeroPriorRevenue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{UserID: uuid.New(), TotalAmount: 700, CreatedAt: now.AddDate(0, 0, -3)},
	}

	s := Summarize(orders, now)
	assert.InDelta(t, 100, s.Revenue.ChangePct, 1e-9)

	empty := Summarize(nil, now)
	assert.InDelta(t, 0, empty.Revenue.ChangePct, 1e-9)
}

func TestMonthlyBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{TotalAmount: 1000, CreatedAt: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{TotalAmount: 2000, CreatedAt: time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)},
		{TotalAmount: 300, CreatedAt: time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC)},
		// older than twelve months, must be ignored
		{TotalAmount: 5000, CreatedAt: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}
	users := []models.User{
		{CreatedAt: time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)},
	}

	points := MonthlyBuckets(orders, users, now)
	require.Len(t, points, 12)

	assert.Equal(t, "Sep 2025", points[0].Label)
	assert.Equal(t, "Aug 2026", points[11].Label)

	assert.EqualValues(t, 3000, points[11].Revenue)
	assert.EqualValues(t, 2, points[11].Orders)
	assert.EqualValues(t, 1, points[11].Signups)

	assert.EqualValues(t, 300, points[0].Revenue)

	var totalRevenue int64
	for _, p := range points {
		totalRevenue += p.Revenue
	}
	assert.EqualValues(t, 3300, totalRevenue, "out-of-window order must not appear")
}

func TestAnalyticsService_Summary(t *testing.T) {
	r := newTestRepo(t)
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	svc := &AnalyticsService{Repo: r, Now: func() time.Time { return now }}
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com", "user")
	require.NoError(t, r.DB.Create(&models.Order{
		UserID:          user.ID,
		Email:           user.Email,
		TotalAmount:     4200,
		Status:          models.OrderStatusProcessing,
		PaymentIntentID: "pi_analytics_1",
		CreatedAt:       now.AddDate(0, 0, -2),
	}).Error)

	s, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 4200, s.Revenue.Current)
	assert.EqualValues(t, 0, s.Revenue.Previous)
	assert.InDelta(t, 100, s.Revenue.ChangePct, 1e-9)
	assert.EqualValues(t, 1, s.ActiveUsers.Current)
}
