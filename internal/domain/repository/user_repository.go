package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	entity.PaginationParams
	Role     *entity.Role
	IsActive *bool
	Search   string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*model.User, int64, error)
	// ListActiveByRole returns active users holding the role, used for admin alerts.
	ListActiveByRole(ctx context.Context, role entity.Role) ([]*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetRole(ctx context.Context, id uuid.UUID, role entity.Role) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// Upsert creates or replaces the profile and reports whether it was created.
	Upsert(ctx context.Context, profile *model.Profile) (bool, error)
}

type PasswordResetRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	// Redeem marks the token used and sets the new password in one transaction.
	Redeem(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string, at time.Time) error
}
