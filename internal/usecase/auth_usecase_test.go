package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/dto"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

type authFixture struct {
	users    *MockUserRepository
	otps     *MockOTPStore
	sessions *MockSessionStore
	outbox   *MockNotificationRepository
	activity *MockActivityLogRepository
	uc       *usecase.AuthUseCase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    new(MockUserRepository),
		otps:     new(MockOTPStore),
		sessions: new(MockSessionStore),
		outbox:   new(MockNotificationRepository),
		activity: new(MockActivityLogRepository),
	}
	f.uc = newAuthUseCase(f.users, f.otps, f.sessions, f.outbox, f.activity)
	return f
}

func newAuthUseCase(
	users repository.UserRepository,
	otps repository.OTPStore,
	sessions repository.SessionStore,
	outbox repository.NotificationRepository,
	activity repository.ActivityLogRepository,
) *usecase.AuthUseCase {
	logger := zap.NewNop()
	tokens := usecase.NewTokenUseCase(config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	return usecase.NewAuthUseCase(
		logger,
		users,
		nil,
		otps,
		tokens,
		usecase.NewSessionUseCase(sessions, 30*time.Minute, logger),
		usecase.NewNotificationUseCase(outbox, nil, "", logger),
		usecase.NewActivityUseCase(activity, logger),
		"http://localhost:3000",
	)
}

func TestAuthUseCase_VerifySignup(t *testing.T) {
	ctx := context.Background()
	email := "fern@example.com"
	key := "otp_code:signup:" + email

	t.Run("wrong code reports remaining attempts", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("ConsumeAttempt", ctx, key).Return(&entity.OTPRecord{Code: "123456", Attempts: 1}, nil)

		_, err := f.uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: "000000", Password: "password123"})

		var otpErr *domainErrors.InvalidOTPError
		require.ErrorAs(t, err, &otpErr)
		assert.Equal(t, 2, otpErr.Remaining)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("exhausted code is deleted even when correct", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("ConsumeAttempt", ctx, key).Return(&entity.OTPRecord{Code: "123456", Attempts: entity.MaxOTPAttempts + 1}, nil)
		f.otps.On("Delete", ctx, key).Return(nil)

		_, err := f.uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: "123456", Password: "password123"})

		assert.ErrorIs(t, err, domainErrors.ErrOTPAttemptsExceeded)
		f.otps.AssertExpectations(t)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("expired code", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("ConsumeAttempt", ctx, key).Return(nil, nil)

		_, err := f.uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: "123456", Password: "password123"})
		assert.ErrorIs(t, err, domainErrors.ErrOTPNotFound)
	})

	t.Run("short password is rejected before the code is checked", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: "123456", Password: "short"})
		assert.ErrorIs(t, err, domainErrors.ErrWeakPassword)
		f.otps.AssertNotCalled(t, "ConsumeAttempt", mock.Anything, mock.Anything)
	})

	t.Run("correct code creates a verified customer", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("ConsumeAttempt", ctx, key).Return(&entity.OTPRecord{Code: "123456", Attempts: 1}, nil)
		f.otps.On("Delete", ctx, key).Return(nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == email && u.Role == entity.RoleCustomer && u.IsVerified && u.IsActive && u.PasswordHash != "password123"
		})).Return(nil)
		f.outbox.On("Enqueue", ctx, mock.MatchedBy(func(n *model.NotificationOutbox) bool {
			return n.Kind == entity.NotifyWelcome
		})).Return(nil)
		f.activity.On("Create", ctx, mock.Anything).Return(nil)

		user, err := f.uc.VerifySignup(ctx, dto.VerifySignupParams{Email: " Fern@Example.com ", OTP: "123456", Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, email, user.Email)
		f.users.AssertExpectations(t)
		f.otps.AssertExpectations(t)
		f.outbox.AssertExpectations(t)
	})
}

func TestAuthUseCase_VerifySignupAttemptLimit(t *testing.T) {
	ctx := context.Background()
	email := "fern@example.com"
	key := "otp_code:signup:" + email

	t.Run("fourth submission is rejected even with the right code", func(t *testing.T) {
		otps := newMemOTPStore()
		users := new(MockUserRepository)
		uc := newAuthUseCase(users, otps, new(MockSessionStore), new(MockNotificationRepository), new(MockActivityLogRepository))
		require.NoError(t, otps.Save(ctx, key, &entity.OTPRecord{Code: "123456"}, time.Minute))

		for i := 0; i < entity.MaxOTPAttempts; i++ {
			_, err := uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: "000000", Password: "password123"})
			var otpErr *domainErrors.InvalidOTPError
			require.ErrorAs(t, err, &otpErr)
			assert.Equal(t, entity.MaxOTPAttempts-i-1, otpErr.Remaining)
		}

		_, err := uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: "123456", Password: "password123"})
		assert.ErrorIs(t, err, domainErrors.ErrOTPAttemptsExceeded)
		assert.Empty(t, otps.records, "exhausted code must be deleted")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("parallel guesses share the limit", func(t *testing.T) {
		otps := newMemOTPStore()
		users := new(MockUserRepository)
		uc := newAuthUseCase(users, otps, new(MockSessionStore), new(MockNotificationRepository), new(MockActivityLogRepository))
		require.NoError(t, otps.Save(ctx, key, &entity.OTPRecord{Code: "123456"}, time.Minute))

		const guesses = 8
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			compared int
			rejected int
		)
		for i := 0; i < guesses; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := uc.VerifySignup(ctx, dto.VerifySignupParams{Email: email, OTP: fmt.Sprintf("%06d", i), Password: "password123"})

				mu.Lock()
				defer mu.Unlock()
				var otpErr *domainErrors.InvalidOTPError
				switch {
				case errors.As(err, &otpErr):
					compared++
				case errors.Is(err, domainErrors.ErrOTPAttemptsExceeded), errors.Is(err, domainErrors.ErrOTPNotFound):
					rejected++
				default:
					t.Errorf("unexpected result: %v", err)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, entity.MaxOTPAttempts, compared)
		assert.Equal(t, guesses-entity.MaxOTPAttempts, rejected)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := usecase.HashPassword("password123")
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.New(),
		Email:        "fern@example.com",
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	t.Run("successful login opens a session", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		f.sessions.On("SetIfAbsent", ctx, mock.Anything).Return(true, nil)
		f.users.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil)
		f.activity.On("Create", ctx, mock.Anything).Return(nil)

		result, err := f.uc.Login(ctx, dto.LoginParams{Email: user.Email, Password: "password123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, user.ID, result.User.ID)
		f.sessions.AssertExpectations(t)
	})

	t.Run("second login while a session is live is rejected", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		f.sessions.On("SetIfAbsent", ctx, mock.Anything).Return(false, nil)

		_, err := f.uc.Login(ctx, dto.LoginParams{Email: user.Email, Password: "password123"})

		assert.ErrorIs(t, err, domainErrors.ErrSessionActive)
		f.users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, user.Email).Return(user, nil)

		_, err := f.uc.Login(ctx, dto.LoginParams{Email: user.Email, Password: "nope-nope"})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
		f.sessions.AssertNotCalled(t, "SetIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domainErrors.ErrUserNotFound)

		_, err := f.uc.Login(ctx, dto.LoginParams{Email: "ghost@example.com", Password: "password123"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture()
		inactive := *user
		inactive.IsActive = false
		f.users.On("GetByEmail", ctx, user.Email).Return(&inactive, nil)

		_, err := f.uc.Login(ctx, dto.LoginParams{Email: user.Email, Password: "password123"})
		assert.ErrorIs(t, err, domainErrors.ErrAccountInactive)
	})

	t.Run("inactive account with a wrong password looks like a wrong password", func(t *testing.T) {
		f := newAuthFixture()
		inactive := *user
		inactive.IsActive = false
		f.users.On("GetByEmail", ctx, user.Email).Return(&inactive, nil)

		_, err := f.uc.Login(ctx, dto.LoginParams{Email: user.Email, Password: "nope-nope"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
	})

	t.Run("login succeeds again after logout", func(t *testing.T) {
		users := new(MockUserRepository)
		activity := new(MockActivityLogRepository)
		uc := newAuthUseCase(users, new(MockOTPStore), newMemSessionStore(), new(MockNotificationRepository), activity)
		users.On("GetByEmail", ctx, user.Email).Return(user, nil)
		users.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil)
		activity.On("Create", ctx, mock.Anything).Return(nil)
		params := dto.LoginParams{Email: user.Email, Password: "password123"}

		_, err := uc.Login(ctx, params)
		require.NoError(t, err)

		_, err = uc.Login(ctx, params)
		require.ErrorIs(t, err, domainErrors.ErrSessionActive)

		require.NoError(t, uc.Logout(ctx, user.ID, dto.RequestMeta{}))

		result, err := uc.Login(ctx, params)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})
}

func TestAuthUseCase_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domainErrors.ErrUserNotFound)

		err := f.uc.ForgotPassword(ctx, "Ghost@example.com")

		assert.NoError(t, err)
		f.outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("inactive account gets the same answer", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "fern@example.com").Return(&model.User{ID: uuid.New(), Email: "fern@example.com"}, nil)

		assert.NoError(t, f.uc.ForgotPassword(ctx, "fern@example.com"))
		f.outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newAuthFixture()
		err := f.uc.ForgotPassword(ctx, "not-an-email")
		assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
	})
}
