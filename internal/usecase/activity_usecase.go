package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
)

// ActivityEntry describes one audited action.
type ActivityEntry struct {
	UserID     *uuid.UUID
	ActionType string
	EntityType string
	EntityID   string
	Details    map[string]interface{}
	IPAddress  string
	UserAgent  string
}

type ActivityUseCase struct {
	repo   repository.ActivityLogRepository
	logger *zap.Logger
}

func NewActivityUseCase(repo repository.ActivityLogRepository, logger *zap.Logger) *ActivityUseCase {
	return &ActivityUseCase{repo: repo, logger: logger}
}

// Record writes an activity row. The audit trail never fails the action it describes.
func (uc *ActivityUseCase) Record(ctx context.Context, e ActivityEntry) {
	row := &model.ActivityLog{
		UserID:     e.UserID,
		ActionType: e.ActionType,
		EntityType: strPtr(e.EntityType),
		EntityID:   strPtr(e.EntityID),
		IPAddress:  strPtr(e.IPAddress),
		UserAgent:  strPtr(e.UserAgent),
	}
	if len(e.Details) > 0 {
		if raw, err := json.Marshal(e.Details); err == nil {
			row.Details = raw
		}
	}

	if err := uc.repo.Create(ctx, row); err != nil {
		uc.logger.Error("Failed to record activity",
			zap.String("action_type", e.ActionType),
			zap.Error(err))
	}
}

func (uc *ActivityUseCase) List(ctx context.Context, filter repository.ActivityFilter) ([]*model.ActivityLog, entity.PaginationMeta, error) {
	filter.Validate()
	logs, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return logs, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}
