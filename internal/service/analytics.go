package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmarochkin/keebshop/internal/models"
	"github.com/dmarochkin/keebshop/internal/repo"
)

const periodDays = 30

type AnalyticsService struct {
	Repo *repo.GormRepo
	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

type Metric struct {
	Current   int64   `json:"current"`
	Previous  int64   `json:"previous"`
	ChangePct float64 `json:"change_pct"`
}

type Summary struct {
	Revenue     Metric `json:"revenue"`
	Orders      Metric `json:"orders"`
	ActiveUsers Metric `json:"active_users"`
}

type MonthlyPoint struct {
	Label   string `json:"label"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
	Signups int64  `json:"signups"`
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AnalyticsService) Summary(ctx context.Context) (*Summary, error) {
	now := s.now()
	since := now.AddDate(0, 0, -2*periodDays)
	orders, err := s.Repo.OrdersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := Summarize(orders, now)
	return &out, nil
}

func (s *AnalyticsService) Monthly(ctx context.Context) ([]MonthlyPoint, error) {
	now := s.now()
	since := MonthStart(now).AddDate(0, -11, 0)

	orders, err := s.Repo.OrdersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.UsersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return MonthlyBuckets(orders, users, now), nil
}

// PercentChange reports the period-over-period delta. A zero prior period
// reads as 100% growth when the current one is positive, 0% otherwise.
func PercentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// Summarize splits orders into the trailing-30-day window and the 30 days
// before it, then compares revenue, order count and distinct ordering
// users.
func Summarize(orders []models.Order, now time.Time) Summary {
	currentStart := now.AddDate(0, 0, -periodDays)
	previousStart := now.AddDate(0, 0, -2*periodDays)

	var curRevenue, prevRevenue, curOrders, prevOrders int64
	curUsers := map[uuid.UUID]struct{}{}
	prevUsers := map[uuid.UUID]struct{}{}

	for _, o := range orders {
		switch {
		case !o.CreatedAt.Before(currentStart) && !o.CreatedAt.After(now):
			curRevenue += o.TotalAmount
			curOrders++
			curUsers[o.UserID] = struct{}{}
		case !o.CreatedAt.Before(previousStart) && o.CreatedAt.Before(currentStart):
			prevRevenue += o.TotalAmount
			prevOrders++
			prevUsers[o.UserID] = struct{}{}
		}
	}

	return Summary{
		Revenue: Metric{
			Current:   curRevenue,
			Previous:  prevRevenue,
			ChangePct: PercentChange(curRevenue, prevRevenue),
		},
		Orders: Metric{
			Current:   curOrders,
			Previous:  prevOrders,
			ChangePct: PercentChange(curOrders, prevOrders),
		},
		ActiveUsers: Metric{
			Current:   int64(len(curUsers)),
			Previous:  int64(len(prevUsers)),
			ChangePct: PercentChange(int64(len(curUsers)), int64(len(prevUsers))),
		},
	}
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlyBuckets lays orders and sign-ups into twelve trailing calendar
// months, oldest first, labeled like "Jan 2026".
func MonthlyBuckets(orders []models.Order, users []models.User, now time.Time) []MonthlyPoint {
	points := make([]MonthlyPoint, 12)
	index := make(map[string]int, 12)

	start := MonthStart(now).AddDate(0, -11, 0)
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		label := m.Format("Jan 2006")
		points[i] = MonthlyPoint{Label: label}
		index[label] = i
	}

	for _, o := range orders {
		if i, ok := index[o.CreatedAt.Format("Jan 2006")]; ok {
			points[i].Revenue += o.TotalAmount
			points[i].Orders++
		}
	}
	for _, u := range users {
		if i, ok := index[u.CreatedAt.Format("Jan 2006")]; ok {
			points[i].Signups++
		}
	}

	return points
}
