package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/pkg/messaging"
	"go.uber.org/zap"
)

// Notification is one email to be written to the outbox.
type Notification struct {
	Kind    entity.NotificationKind
	To      []string
	Subject string
	Data    map[string]interface{}
}

// NotificationWake is published after every enqueue so the dispatcher does not wait for its
// next poll.
type NotificationWake struct {
	ID   string                  `json:"id"`
	Kind entity.NotificationKind `json:"kind"`
}

type NotificationUseCase struct {
	repo    repository.NotificationRepository
	bus     messaging.Bus
	channel string
	logger  *zap.Logger
}

func NewNotificationUseCase(repo repository.NotificationRepository, bus messaging.Bus, channel string, logger *zap.Logger) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, bus: bus, channel: channel, logger: logger}
}

// Enqueue stores the notification. Callers treat a failure as non-fatal for their own
// operation and only log it.
func (uc *NotificationUseCase) Enqueue(ctx context.Context, n Notification) error {
	if len(n.To) == 0 {
		return fmt.Errorf("notification %s has no recipients", n.Kind)
	}

	payload, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	row := &model.NotificationOutbox{
		Kind:          n.Kind,
		Recipients:    n.To,
		Subject:       n.Subject,
		Payload:       payload,
		Status:        entity.NotificationPending,
		NextAttemptAt: time.Now(),
	}
	if err := uc.repo.Enqueue(ctx, row); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	if uc.bus != nil {
		if err := uc.bus.Publish(ctx, uc.channel, NotificationWake{ID: row.ID.String(), Kind: n.Kind}); err != nil {
			// The poll loop still picks the row up.
			uc.logger.Warn("Failed to publish notification wake-up", zap.Error(err))
		}
	}

	uc.logger.Debug("Notification enqueued",
		zap.String("notification_id", row.ID.String()),
		zap.String("kind", string(n.Kind)))
	return nil
}

// Send enqueues and logs failures instead of returning them.
func (uc *NotificationUseCase) Send(ctx context.Context, n Notification) {
	if err := uc.Enqueue(ctx, n); err != nil {
		uc.logger.Error("Failed to enqueue notification",
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
	}
}
