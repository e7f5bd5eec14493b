package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"gorm.io/datatypes"
)

// User is an account. Deactivation is a soft flag.
type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	Role         entity.Role `gorm:"size:32;not null;default:'customer';index" json:"role"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	IsVerified   bool        `gorm:"not null;default:false" json:"is_verified"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
	CreatedAt    time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"default:now()" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Address is a postal address stored inside JSON columns.
type Address struct {
	Label        string `json:"label,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country,omitempty"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

// Profile holds personal details, 1:1 with User.
type Profile struct {
	UserID            uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"user_id"`
	FirstName         string                       `gorm:"size:100;not null" json:"first_name"`
	MiddleName        *string                      `gorm:"size:100" json:"middle_name,omitempty"`
	LastName          string                       `gorm:"size:100;not null" json:"last_name"`
	PermanentAddress  *string                      `json:"permanent_address,omitempty"`
	MobileNumber      *string                      `gorm:"size:20" json:"mobile_number,omitempty"`
	DeliveryAddresses datatypes.JSONSlice[Address] `gorm:"type:jsonb;default:'[]'" json:"delivery_addresses"`
	CreatedAt         time.Time                    `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time                    `gorm:"default:now()" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// FullName joins the non-empty name parts.
func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	name := p.FirstName
	if p.MiddleName != nil && *p.MiddleName != "" {
		name += " " + *p.MiddleName
	}
	if p.LastName != "" {
		name += " " + p.LastName
	}
	return name
}

// PasswordResetToken is a single-use reset secret.
type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string     `gorm:"size:128;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:now()" json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Usable reports whether the token can still be redeemed at now.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
