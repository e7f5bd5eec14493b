package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
)

func TestSessionUseCase_Start(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("opens a session when none exists", func(t *testing.T) {
		store := new(MockSessionStore)
		uc := usecase.NewSessionUseCase(store, 30*time.Minute, zap.NewNop())

		store.On("SetIfAbsent", ctx, mock.MatchedBy(func(s *entity.Session) bool {
			return s.UserID == userID && s.UserAgent == "curl/8"
		})).Return(true, nil)

		assert.NoError(t, uc.Start(ctx, userID, "curl/8"))
		store.AssertExpectations(t)
	})

	t.Run("rejects a second concurrent session", func(t *testing.T) {
		store := new(MockSessionStore)
		uc := usecase.NewSessionUseCase(store, 30*time.Minute, zap.NewNop())

		store.On("SetIfAbsent", ctx, mock.Anything).Return(false, nil)

		err := uc.Start(ctx, userID, "firefox")
		assert.ErrorIs(t, err, domainErrors.ErrSessionActive)
	})
}

func TestSessionUseCase_Validate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("live session is refreshed", func(t *testing.T) {
		store := new(MockSessionStore)
		uc := usecase.NewSessionUseCase(store, 30*time.Minute, zap.NewNop())
		store.On("Touch", ctx, userID, mock.AnythingOfType("time.Time")).Return(true, nil)

		assert.NoError(t, uc.Validate(ctx, userID))
		store.AssertExpectations(t)
	})

	t.Run("missing session is expired", func(t *testing.T) {
		store := new(MockSessionStore)
		uc := usecase.NewSessionUseCase(store, 30*time.Minute, zap.NewNop())
		store.On("Touch", ctx, userID, mock.AnythingOfType("time.Time")).Return(false, nil)

		assert.ErrorIs(t, uc.Validate(ctx, userID), domainErrors.ErrSessionExpired)
	})
}

func TestSessionUseCase_Sweep(t *testing.T) {
	ctx := context.Background()
	store := new(MockSessionStore)
	timeout := 30 * time.Minute
	uc := usecase.NewSessionUseCase(store, timeout, zap.NewNop())

	before := time.Now().Add(-timeout)
	store.On("Sweep", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		return !cutoff.Before(before) && cutoff.Before(time.Now().Add(-timeout+time.Second))
	})).Return(2, nil)

	removed, err := uc.Sweep(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, removed)
	store.AssertExpectations(t)
}

func TestSessionUseCase_Exists(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := new(MockSessionStore)
	uc := usecase.NewSessionUseCase(store, time.Minute, zap.NewNop())

	store.On("Get", ctx, userID).Return(nil, nil).Once()
	ok, err := uc.Exists(ctx, userID)
	assert.NoError(t, err)
	assert.False(t, ok)

	store.On("Get", ctx, userID).Return(&entity.Session{UserID: userID}, nil).Once()
	ok, err = uc.Exists(ctx, userID)
	assert.NoError(t, err)
	assert.True(t, ok)
}
