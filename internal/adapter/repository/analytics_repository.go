package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SignupsPerDay(ctx context.Context, start, end time.Time) ([]domainRepo.DailyCount, error) {
	var rows []domainRepo.DailyCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("date_trunc('day', created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate signups: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) UsersByRole(ctx context.Context) ([]domainRepo.RoleCount, error) {
	var rows []domainRepo.RoleCount
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) UserTotals(ctx context.Context) (*domainRepo.UserTotals, error) {
	var totals domainRepo.UserTotals
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active) AS active, COUNT(*) FILTER (WHERE is_verified) AS verified").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return &totals, nil
}

func (r *analyticsRepository) OrdersByStatus(ctx context.Context) ([]domainRepo.StatusCount, error) {
	var rows []domainRepo.StatusCount
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) Sales(ctx context.Context, period entity.SalesPeriod, start, end time.Time) ([]domainRepo.SalesBucket, error) {
	var rows []domainRepo.SalesBucket
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("date_trunc(?, placed_at) AS bucket, COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS order_count", string(period)).
		Where("placed_at >= ? AND placed_at < ?", start, end).
		Where("status NOT IN ?", entity.NonRevenueStatuses).
		Group("bucket").
		Order("bucket").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) ProductTotals(ctx context.Context) (*domainRepo.ProductTotals, error) {
	var totals domainRepo.ProductTotals
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= min_stock_threshold) AS low_stock,
			COUNT(*) FILTER (WHERE stock_quantity <= 0) AS out_of_stock`).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return &totals, nil
}

func (r *analyticsRepository) RevenueTotals(ctx context.Context, monthStart time.Time) (*domainRepo.RevenueTotals, error) {
	var totals domainRepo.RevenueTotals
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select(`COALESCE(SUM(total_amount) FILTER (WHERE status NOT IN ?), 0) AS total,
			COALESCE(SUM(total_amount) FILTER (WHERE status NOT IN ? AND placed_at >= ?), 0) AS this_month,
			COALESCE(SUM(total_amount) FILTER (WHERE status = ?), 0) AS refunded,
			COUNT(*) FILTER (WHERE status NOT IN ?) AS order_count`,
			entity.NonRevenueStatuses, entity.NonRevenueStatuses, monthStart, entity.OrderStatusRefunded, entity.NonRevenueStatuses).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total revenue: %w", err)
	}
	return &totals, nil
}
