package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
)

// SessionUseCase enforces a single live session per user.
type SessionUseCase struct {
	store             repository.SessionStore
	inactivityTimeout time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

func NewSessionUseCase(store repository.SessionStore, inactivityTimeout time.Duration, logger *zap.Logger) *SessionUseCase {
	return &SessionUseCase{store: store, inactivityTimeout: inactivityTimeout, logger: logger, now: time.Now}
}

// Start opens a session and fails with ErrSessionActive when one already exists.
func (uc *SessionUseCase) Start(ctx context.Context, userID uuid.UUID, userAgent string) error {
	created, err := uc.store.SetIfAbsent(ctx, &entity.Session{
		UserID:    userID,
		Timestamp: uc.now(),
		UserAgent: userAgent,
	})
	if err != nil {
		return err
	}
	if !created {
		return domainErrors.ErrSessionActive
	}
	return nil
}

// Validate refreshes the session and fails with ErrSessionExpired when it is gone.
func (uc *SessionUseCase) Validate(ctx context.Context, userID uuid.UUID) error {
	ok, err := uc.store.Touch(ctx, userID, uc.now())
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrSessionExpired
	}
	return nil
}

// Exists reports whether the user has a live session without refreshing it.
func (uc *SessionUseCase) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	s, err := uc.store.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

func (uc *SessionUseCase) End(ctx context.Context, userID uuid.UUID) error {
	return uc.store.Delete(ctx, userID)
}

// Sweep removes sessions idle for longer than the inactivity timeout.
func (uc *SessionUseCase) Sweep(ctx context.Context) (int, error) {
	removed, err := uc.store.Sweep(ctx, uc.now().Add(-uc.inactivityTimeout))
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		uc.logger.Info("Swept idle sessions", zap.Int("removed", removed))
	}
	return removed, nil
}
