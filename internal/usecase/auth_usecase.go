package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/constants"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/dto"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// AuthUseCase implements signup, login, and password recovery.
type AuthUseCase struct {
	logger        *zap.Logger
	users         repository.UserRepository
	resets        repository.PasswordResetRepository
	otps          repository.OTPStore
	tokens        *TokenUseCase
	sessions      *SessionUseCase
	notifications *NotificationUseCase
	activity      *ActivityUseCase
	frontendURL   string
	now           func() time.Time
}

func NewAuthUseCase(
	logger *zap.Logger,
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	otps repository.OTPStore,
	tokens *TokenUseCase,
	sessions *SessionUseCase,
	notifications *NotificationUseCase,
	activity *ActivityUseCase,
	frontendURL string,
) *AuthUseCase {
	return &AuthUseCase{
		logger:        logger,
		users:         users,
		resets:        resets,
		otps:          otps,
		tokens:        tokens,
		sessions:      sessions,
		notifications: notifications,
		activity:      activity,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		now:           time.Now,
	}
}

func signupOTPKey(email string) string {
	return constants.SignupOTPPrefix + email
}

// SendSignupOTP stores a fresh code for email and queues it for delivery.
func (uc *AuthUseCase) SendSignupOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return apperrors.Validation(map[string]string{"email": "Valid email is required"})
	}

	exists, err := uc.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return domainErrors.ErrEmailTaken
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	record := &entity.OTPRecord{
		Code:   code,
		Signup: &entity.PendingSignup{Email: email, CreatedAt: uc.now()},
	}
	if err := uc.otps.Save(ctx, signupOTPKey(email), record, constants.SignupOTPExpiry); err != nil {
		return err
	}

	uc.notifications.Send(ctx, Notification{
		Kind:    entity.NotifySignupOTP,
		To:      []string{email},
		Subject: "Your OTP Code - Online Nursery",
		Data: map[string]interface{}{
			"otp":              code,
			"expiresInMinutes": int(constants.SignupOTPExpiry.Minutes()),
		},
	})

	uc.logger.Info("Signup OTP issued", zap.String("email", email))
	return nil
}

// checkOTP consumes one attempt before comparing, so parallel submissions cannot share a
// count. Once the attempts are used up the record is deleted and rejected even when the
// code matches.
func checkOTP(ctx context.Context, otps repository.OTPStore, logger *zap.Logger, key, code string) (*entity.OTPRecord, error) {
	record, err := otps.ConsumeAttempt(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domainErrors.ErrOTPNotFound
	}

	if record.Attempts > entity.MaxOTPAttempts {
		if err := otps.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete exhausted OTP", zap.Error(err))
		}
		return nil, domainErrors.ErrOTPAttemptsExceeded
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		return nil, &domainErrors.InvalidOTPError{Remaining: entity.MaxOTPAttempts - record.Attempts}
	}
	return record, nil
}

// VerifySignup checks the OTP and creates a verified customer account.
func (uc *AuthUseCase) VerifySignup(ctx context.Context, params dto.VerifySignupParams) (*model.User, error) {
	email := NormalizeEmail(params.Email)
	if len(params.Password) < constants.MinPasswordLength {
		return nil, domainErrors.ErrWeakPassword
	}

	key := signupOTPKey(email)
	if _, err := checkOTP(ctx, uc.otps, uc.logger, key, params.OTP); err != nil {
		return nil, err
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := uc.otps.Delete(ctx, key); err != nil {
		uc.logger.Warn("Failed to delete used OTP", zap.String("email", email), zap.Error(err))
	}

	uc.notifications.Send(ctx, Notification{
		Kind:    entity.NotifyWelcome,
		To:      []string{email},
		Subject: "Welcome to Our Online Nursery",
		Data:    map[string]interface{}{"email": email},
	})
	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &user.ID,
		ActionType: entity.ActivitySignup,
		EntityType: "user",
		EntityID:   user.ID.String(),
	})

	uc.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies credentials and opens the single allowed session.
func (uc *AuthUseCase) Login(ctx context.Context, params dto.LoginParams) (*dto.LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, NormalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, params.Password) {
		return nil, domainErrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domainErrors.ErrAccountInactive
	}

	if err := uc.sessions.Start(ctx, user.ID, params.UserAgent); err != nil {
		return nil, err
	}

	tokens, err := uc.tokens.GenerateForUser(user)
	if err != nil {
		if endErr := uc.sessions.End(ctx, user.ID); endErr != nil {
			uc.logger.Warn("Failed to roll back session", zap.Error(endErr))
		}
		return nil, err
	}

	if err := uc.users.UpdateLastLogin(ctx, user.ID, uc.now()); err != nil {
		uc.logger.Warn("Failed to update last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &user.ID,
		ActionType: entity.ActivityLogin,
		IPAddress:  params.IP,
		UserAgent:  params.UserAgent,
	})

	uc.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &dto.LoginResult{
		TokenPair: *tokens,
		User: dto.AuthUser{
			ID:         user.ID,
			Email:      user.Email,
			Role:       user.Role,
			IsVerified: user.IsVerified,
		},
	}, nil
}

// Refresh issues a new token pair while the session is alive. The role is re-read so a
// demotion takes effect on the next refresh.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	userID, err := uc.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	alive, err := uc.sessions.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !alive {
		return nil, domainErrors.ErrSessionExpired
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, domainErrors.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainErrors.ErrAccountInactive
	}
	return uc.tokens.GenerateForUser(user)
}

func (uc *AuthUseCase) Logout(ctx context.Context, userID uuid.UUID, meta dto.RequestMeta) error {
	if err := uc.sessions.End(ctx, userID); err != nil {
		return err
	}
	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &userID,
		ActionType: entity.ActivityLogout,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	uc.logger.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

// ForgotPassword stores a reset token and emails the reset link. Unknown and inactive
// addresses get the same response as real ones.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return apperrors.Validation(map[string]string{"email": "Valid email is required"})
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			uc.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !user.IsActive {
		uc.logger.Info("Password reset requested for inactive account", zap.String("user_id", user.ID.String()))
		return nil
	}

	token, err := GenerateResetToken()
	if err != nil {
		return err
	}
	if err := uc.resets.Create(ctx, &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: uc.now().Add(constants.PasswordResetExpiry),
	}); err != nil {
		return err
	}

	uc.notifications.Send(ctx, Notification{
		Kind:    entity.NotifyPasswordReset,
		To:      []string{user.Email},
		Subject: "Password Reset Request",
		Data: map[string]interface{}{
			"resetUrl":         uc.frontendURL + "/reset-password?token=" + token,
			"expiresInMinutes": int(constants.PasswordResetExpiry.Minutes()),
		},
	})
	return nil
}

// ResetPassword redeems a reset token. Any live session is ended so the new password is
// required everywhere.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, params dto.ResetPasswordParams) error {
	if params.NewPassword != params.ConfirmPassword {
		return apperrors.Validation(map[string]string{"confirmPassword": "Passwords do not match"})
	}
	if len(params.NewPassword) < constants.MinPasswordLength {
		return domainErrors.ErrWeakPassword
	}

	token, err := uc.resets.GetByToken(ctx, params.Token)
	if err != nil {
		return err
	}
	now := uc.now()
	if !token.Usable(now) {
		return domainErrors.ErrResetTokenInvalid
	}

	hash, err := HashPassword(params.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.resets.Redeem(ctx, token.ID, token.UserID, hash, now); err != nil {
		return err
	}

	if err := uc.sessions.End(ctx, token.UserID); err != nil {
		uc.logger.Warn("Failed to end session after password reset", zap.Error(err))
	}
	uc.logger.Info("Password reset", zap.String("user_id", token.UserID.String()))
	return nil
}

// CreateAdmin creates a verified, active back-office account.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, actorID uuid.UUID, params dto.CreateAdminParams) (*model.User, error) {
	if !containsRole(entity.AssignableAdminRoles(), params.Role) {
		return nil, domainErrors.ErrRoleNotAssignable
	}
	email := NormalizeEmail(params.Email)
	if !IsValidEmail(email) {
		return nil, apperrors.Validation(map[string]string{"email": "Valid email is required"})
	}
	if len(params.Password) < constants.MinPasswordLength {
		return nil, domainErrors.ErrWeakPassword
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         params.Role,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &actorID,
		ActionType: entity.ActivityAdminCreate,
		EntityType: "user",
		EntityID:   user.ID.String(),
		Details:    map[string]interface{}{"role": params.Role, "email": email},
	})
	uc.logger.Info("Admin created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(params.Role)),
		zap.String("created_by", actorID.String()))
	return user, nil
}

func containsRole(roles []entity.Role, r entity.Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
