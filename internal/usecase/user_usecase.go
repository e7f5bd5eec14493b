package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

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

// Admin actions accepted by ManageAdmin.
const (
	AdminActionAssign = "assign"
	AdminActionRevoke = "revoke"
)

var mobileRegex = regexp.MustCompile(`^\d{10}$`)

// UserUseCase covers profiles, email change, and super-admin account management.
type UserUseCase struct {
	logger        *zap.Logger
	users         repository.UserRepository
	profiles      repository.ProfileRepository
	otps          repository.OTPStore
	sessions      *SessionUseCase
	notifications *NotificationUseCase
	activity      *ActivityUseCase
}

func NewUserUseCase(
	logger *zap.Logger,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	otps repository.OTPStore,
	sessions *SessionUseCase,
	notifications *NotificationUseCase,
	activity *ActivityUseCase,
) *UserUseCase {
	return &UserUseCase{
		logger:        logger,
		users:         users,
		profiles:      profiles,
		otps:          otps,
		sessions:      sessions,
		notifications: notifications,
		activity:      activity,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return uc.profiles.GetByUserID(ctx, userID)
}

// SaveProfile creates or replaces the caller's profile and reports whether it was created.
func (uc *UserUseCase) SaveProfile(ctx context.Context, userID uuid.UUID, params dto.ProfileParams) (*model.Profile, bool, error) {
	fields := map[string]string{}
	if strings.TrimSpace(params.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if strings.TrimSpace(params.LastName) == "" {
		fields["last_name"] = "Last name is required"
	}
	mobile := strings.TrimSpace(params.MobileNumber)
	if mobile != "" && !mobileRegex.MatchString(mobile) {
		fields["mobile_number"] = "Mobile number must be 10 digits"
	}
	if len(fields) > 0 {
		return nil, false, apperrors.Validation(fields)
	}

	addresses := params.DeliveryAddresses
	if addresses == nil {
		addresses = []model.Address{}
	}
	profile := &model.Profile{
		UserID:            userID,
		FirstName:         strings.TrimSpace(params.FirstName),
		MiddleName:        strPtr(strings.TrimSpace(params.MiddleName)),
		LastName:          strings.TrimSpace(params.LastName),
		PermanentAddress:  strPtr(strings.TrimSpace(params.PermanentAddress)),
		MobileNumber:      strPtr(mobile),
		DeliveryAddresses: addresses,
	}

	created, err := uc.profiles.Upsert(ctx, profile)
	if err != nil {
		return nil, false, err
	}
	return profile, created, nil
}

func emailChangeOTPKey(userID uuid.UUID) string {
	return constants.EmailChangeOTPPrefix + userID.String()
}

// RequestEmailChange sends a code to the new address. The address must not belong to anyone.
func (uc *UserUseCase) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	newEmail = NormalizeEmail(newEmail)
	if !IsValidEmail(newEmail) {
		return apperrors.Validation(map[string]string{"newEmail": "Valid email is required"})
	}

	exists, err := uc.users.ExistsByEmail(ctx, newEmail)
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
	record := &entity.OTPRecord{Code: code, NewEmail: newEmail, UserID: &userID}
	if err := uc.otps.Save(ctx, emailChangeOTPKey(userID), record, constants.EmailChangeOTPExpiry); err != nil {
		return err
	}

	uc.notifications.Send(ctx, Notification{
		Kind:    entity.NotifyEmailChangeOTP,
		To:      []string{newEmail},
		Subject: "Verify your new email address",
		Data: map[string]interface{}{
			"otp":              code,
			"email":            newEmail,
			"expiresInMinutes": int(constants.EmailChangeOTPExpiry.Minutes()),
		},
	})
	uc.logger.Info("Email change OTP issued", zap.String("user_id", userID.String()))
	return nil
}

// VerifyEmailOTP applies the pending email change.
func (uc *UserUseCase) VerifyEmailOTP(ctx context.Context, userID uuid.UUID, code string) (string, error) {
	key := emailChangeOTPKey(userID)
	record, err := checkOTP(ctx, uc.otps, uc.logger, key, code)
	if err != nil {
		return "", err
	}

	if err := uc.users.UpdateEmail(ctx, userID, record.NewEmail); err != nil {
		return "", err
	}
	if err := uc.otps.Delete(ctx, key); err != nil {
		uc.logger.Warn("Failed to delete used OTP", zap.Error(err))
	}

	uc.logger.Info("Email changed", zap.String("user_id", userID.String()))
	return record.NewEmail, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, filter repository.UserFilter) ([]*model.User, entity.PaginationMeta, error) {
	filter.Validate()
	users, total, err := uc.users.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return users, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, userID uuid.UUID) (*dto.UserDetail, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail := &dto.UserDetail{User: user}
	profile, err := uc.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		detail.Profile = profile
	case !errors.Is(err, domainErrors.ErrProfileNotFound):
		return nil, err
	}
	return detail, nil
}

// SetUserStatus activates or deactivates an account. Deactivation ends the live session.
func (uc *UserUseCase) SetUserStatus(ctx context.Context, actorID, userID uuid.UUID, active bool) error {
	if actorID == userID {
		return domainErrors.ErrSelfModification
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := uc.users.SetActive(ctx, userID, active); err != nil {
		return err
	}
	if !active {
		if err := uc.sessions.End(ctx, userID); err != nil {
			uc.logger.Warn("Failed to end session of deactivated user", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &actorID,
		ActionType: entity.ActivityUserStatus,
		EntityType: "user",
		EntityID:   userID.String(),
		Details:    map[string]interface{}{"is_active": active},
	})
	return nil
}

// SetUserRole changes a role. super_admin is never assignable here and nobody changes their own.
func (uc *UserUseCase) SetUserRole(ctx context.Context, actorID, userID uuid.UUID, role entity.Role) error {
	if actorID == userID {
		return domainErrors.ErrSelfModification
	}
	if !containsRole(entity.AssignableRoles(), role) {
		return domainErrors.ErrRoleNotAssignable
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == role {
		return nil
	}
	if err := uc.users.SetRole(ctx, userID, role); err != nil {
		return err
	}
	// Access tokens carry the role; the next request must log in again.
	if err := uc.sessions.End(ctx, userID); err != nil {
		uc.logger.Warn("Failed to end session after role change", zap.String("user_id", userID.String()), zap.Error(err))
	}

	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &actorID,
		ActionType: entity.ActivityUserRole,
		EntityType: "user",
		EntityID:   userID.String(),
		Details:    map[string]interface{}{"from": user.Role, "to": role},
	})
	return nil
}

// ManageAdmin assigns an admin role or revokes it back to customer.
func (uc *UserUseCase) ManageAdmin(ctx context.Context, actorID uuid.UUID, params dto.ManageAdminParams) error {
	userID, err := uuid.Parse(params.UserID)
	if err != nil {
		return apperrors.Validation(map[string]string{"userId": "Valid user id is required"})
	}

	switch params.Action {
	case AdminActionRevoke:
		return uc.SetUserRole(ctx, actorID, userID, entity.RoleCustomer)
	case AdminActionAssign, "":
		role, ok := entity.ParseRole(params.Role)
		if !ok || !containsRole(entity.AssignableAdminRoles(), role) {
			return domainErrors.ErrRoleNotAssignable
		}
		return uc.SetUserRole(ctx, actorID, userID, role)
	default:
		return apperrors.Validation(map[string]string{"action": "Action must be assign or revoke"})
	}
}
