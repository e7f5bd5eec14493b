package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

type ActivityFilter struct {
	entity.PaginationParams
	ActionType string
	UserID     *uuid.UUID
}

type ActivityLogRepository interface {
	Create(ctx context.Context, log *model.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]*model.ActivityLog, int64, error)
}

// NotificationRepository is the outbox.
type NotificationRepository interface {
	Enqueue(ctx context.Context, n *model.NotificationOutbox) error
	// ClaimDue locks up to limit due rows with SKIP LOCKED and leases them until lease.
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*model.NotificationOutbox, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error
}

type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

type RoleCount struct {
	Role  entity.Role `json:"role"`
	Count int64       `json:"count"`
}

type StatusCount struct {
	Status entity.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type SalesBucket struct {
	Bucket     time.Time       `json:"bucket"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"orderCount"`
}

type UserTotals struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Verified int64 `json:"verified"`
}

type ProductTotals struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	LowStock   int64 `json:"lowStock"`
	OutOfStock int64 `json:"outOfStock"`
}

type RevenueTotals struct {
	Total      decimal.Decimal `json:"total"`
	ThisMonth  decimal.Decimal `json:"thisMonth"`
	Refunded   decimal.Decimal `json:"refunded"`
	OrderCount int64           `json:"orderCount"`
}

// AnalyticsRepository aggregates platform figures for the super admin.
type AnalyticsRepository interface {
	SignupsPerDay(ctx context.Context, start, end time.Time) ([]DailyCount, error)
	UsersByRole(ctx context.Context) ([]RoleCount, error)
	UserTotals(ctx context.Context) (*UserTotals, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	Sales(ctx context.Context, period entity.SalesPeriod, start, end time.Time) ([]SalesBucket, error)
	ProductTotals(ctx context.Context) (*ProductTotals, error)
	RevenueTotals(ctx context.Context, monthStart time.Time) (*RevenueTotals, error)
}
