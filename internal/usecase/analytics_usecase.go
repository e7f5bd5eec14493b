package usecase

import (
	"context"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// UserAnalytics is the super-admin user report.
type UserAnalytics struct {
	Start   time.Time               `json:"startDate"`
	End     time.Time               `json:"endDate"`
	Signups []repository.DailyCount `json:"signups"`
	ByRole  []repository.RoleCount  `json:"byRole"`
	Totals  *repository.UserTotals  `json:"totals"`
}

// SalesAnalytics is revenue per bucket for one period size.
type SalesAnalytics struct {
	Period  entity.SalesPeriod       `json:"period"`
	Start   time.Time                `json:"startDate"`
	End     time.Time                `json:"endDate"`
	Buckets []repository.SalesBucket `json:"buckets"`
}

// PlatformStats is the dashboard overview.
type PlatformStats struct {
	Users    *repository.UserTotals    `json:"users"`
	Orders   []repository.StatusCount  `json:"orders"`
	Products *repository.ProductTotals `json:"products"`
	Revenue  *repository.RevenueTotals `json:"revenue"`
}

type AnalyticsUseCase struct {
	logger    *zap.Logger
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

func NewAnalyticsUseCase(logger *zap.Logger, analytics repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{logger: logger, analytics: analytics, now: time.Now}
}

// UserAnalytics defaults to the last 30 days.
func (uc *AnalyticsUseCase) UserAnalytics(ctx context.Context, start, end *time.Time) (*UserAnalytics, error) {
	to := uc.now()
	if end != nil {
		to = *end
	}
	from := to.AddDate(0, 0, -30)
	if start != nil {
		from = *start
	}
	if !from.Before(to) {
		return nil, apperrors.InvalidArgument("startDate must be before endDate")
	}

	signups, err := uc.analytics.SignupsPerDay(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byRole, err := uc.analytics.UsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := uc.analytics.UserTotals(ctx)
	if err != nil {
		return nil, err
	}
	return &UserAnalytics{Start: from, End: to, Signups: signups, ByRole: byRole, Totals: totals}, nil
}

// SalesAnalytics looks back over a window sized to the period.
func (uc *AnalyticsUseCase) SalesAnalytics(ctx context.Context, period string) (*SalesAnalytics, error) {
	p, ok := entity.ParseSalesPeriod(period)
	if !ok {
		return nil, apperrors.Validation(map[string]string{"period": "Period must be day, week, month or year"})
	}

	end := uc.now()
	var start time.Time
	switch p {
	case entity.PeriodWeek:
		start = end.AddDate(0, 0, -7*12)
	case entity.PeriodMonth:
		start = end.AddDate(-1, 0, 0)
	case entity.PeriodYear:
		start = end.AddDate(-5, 0, 0)
	default:
		start = end.AddDate(0, 0, -30)
	}

	buckets, err := uc.analytics.Sales(ctx, p, start, end)
	if err != nil {
		return nil, err
	}
	return &SalesAnalytics{Period: p, Start: start, End: end, Buckets: buckets}, nil
}

func (uc *AnalyticsUseCase) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	users, err := uc.analytics.UserTotals(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := uc.analytics.OrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.analytics.ProductTotals(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	revenue, err := uc.analytics.RevenueTotals(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{Users: users, Orders: orders, Products: products, Revenue: revenue}, nil
}
