package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Enqueue(ctx context.Context, n *model.NotificationOutbox) error {
	if n.Status == "" {
		n.Status = entity.NotificationPending
	}
	if n.NextAttemptAt.IsZero() {
		n.NextAttemptAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// ClaimDue pushes next_attempt_at forward by lease so other dispatchers skip the claimed rows
// until the lease runs out.
func (r *notificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*model.NotificationOutbox, error) {
	var rows []*model.NotificationOutbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND next_attempt_at <= ?", entity.NotificationPending, now).
			Order("next_attempt_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to select due notifications: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(rows))
		for i, n := range rows {
			ids[i] = n.ID
		}
		return tx.Model(&model.NotificationOutbox{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{"next_attempt_at": now.Add(lease), "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     entity.NotificationSent,
		"sent_at":    at,
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": nil,
	})
}

func (r *notificationRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	return r.update(ctx, id, map[string]interface{}{
		"attempts":        attempts,
		"next_attempt_at": next,
		"last_error":      lastErr,
	})
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     entity.NotificationFailed,
		"attempts":   attempts,
		"last_error": lastErr,
	})
}

func (r *notificationRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	if err := r.db.WithContext(ctx).Model(&model.NotificationOutbox{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}
