package dto

import (
	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
)

// LoginParams carries credentials plus the device details stored with the session.
type LoginParams struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// VerifySignupParams completes an OTP signup.
type VerifySignupParams struct {
	Email    string
	OTP      string
	Password string
}

type ResetPasswordParams struct {
	Token           string
	NewPassword     string
	ConfirmPassword string
}

type CreateAdminParams struct {
	Email    string
	Password string
	Role     entity.Role
}

// AuthUser is the user summary returned on login and signup.
type AuthUser struct {
	ID         uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	Role       entity.Role `json:"role,omitempty"`
	IsVerified bool        `json:"isVerified"`
}

// LoginResult is the login response body.
type LoginResult struct {
	entity.TokenPair
	User AuthUser `json:"user"`
}

// RequestMeta identifies where a request came from, for the activity log.
type RequestMeta struct {
	IP        string
	UserAgent string
}
