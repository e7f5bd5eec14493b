package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) domainRepo.UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, "lower(email) = lower(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("lower(email) = lower(?)", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context, filter domainRepo.UserFilter) ([]*model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		query = query.Where("email ILIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*model.User
	if err := paginate(query, filter.PaginationParams).Preload("Profile").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) ListActiveByRole(ctx context.Context, role entity.Role) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).Where("role = ? AND is_active = ?", role, true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"last_login": at})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	err := r.updateColumns(ctx, id, map[string]interface{}{"email": email})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErrors.ErrEmailTaken
	}
	return err
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"is_active": active})
}

func (r *userRepository) SetRole(ctx context.Context, id uuid.UUID, role entity.Role) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"role": role})
}

func (r *userRepository) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	columns["updated_at"] = gorm.Expr("now()")
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) domainRepo.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Profile{}).Where("user_id = ?", profile.UserID).Count(&count).Error; err != nil {
			return err
		}
		created = count == 0
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "middle_name", "last_name", "permanent_address",
				"mobile_number", "delivery_addresses", "updated_at",
			}),
		}).Create(profile).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to save profile: %w", err)
	}
	return created, nil
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) domainRepo.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := r.db.WithContext(ctx).First(&t, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &t, nil
}

// Redeem guards on used_at IS NULL so a token can only be spent once.
func (r *passwordResetRepository) Redeem(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PasswordResetToken{}).
			Where("id = ? AND used_at IS NULL", tokenID).
			Update("used_at", at)
		if result.Error != nil {
			return fmt.Errorf("failed to mark reset token used: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainErrors.ErrResetTokenInvalid
		}
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    at,
		}).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
}
