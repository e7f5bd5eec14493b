package repository

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"gorm.io/gorm"
)

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) domainRepo.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, log *model.ActivityLog) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(log).Error; err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

func (r *activityLogRepository) List(ctx context.Context, filter domainRepo.ActivityFilter) ([]*model.ActivityLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	var logs []*model.ActivityLog
	err := paginate(query, filter.PaginationParams).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "email", "role") }).
		Preload("User.Profile", func(db *gorm.DB) *gorm.DB { return db.Select("user_id", "first_name", "last_name") }).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, total, nil
}
