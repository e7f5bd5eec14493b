package errors

import (
	"fmt"

	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

var (
	ErrUserNotFound        = apperrors.NotFound("User not found")
	ErrEmailTaken          = apperrors.Conflict("Email already registered")
	ErrInvalidCredentials  = apperrors.Unauthenticated("Invalid email or password")
	ErrAccountInactive     = apperrors.Forbidden("Account is deactivated")
	ErrSessionActive       = apperrors.Forbidden("Account already logged in on another device. Please logout first.")
	ErrSessionExpired      = apperrors.Unauthenticated("Session expired. Please login again.")
	ErrInvalidToken        = apperrors.Unauthenticated("Invalid or expired token")
	ErrOTPNotFound         = apperrors.InvalidArgument("OTP expired or not found. Please request a new one.")
	ErrOTPAttemptsExceeded = apperrors.InvalidArgument("Too many failed attempts. Please request a new OTP.")
	ErrWeakPassword        = apperrors.InvalidArgument("Password must be at least 8 characters")
	ErrResetTokenInvalid   = apperrors.InvalidArgument("Invalid or expired reset token")
	ErrForbidden           = apperrors.Forbidden("Insufficient permissions")
	ErrSelfModification    = apperrors.InvalidArgument("You cannot change your own status or role")
	ErrRoleNotAssignable   = apperrors.InvalidArgument("Role cannot be assigned")
	ErrProfileNotFound     = apperrors.NotFound("Profile not found")
)

// InvalidOTPError reports a wrong OTP and how many attempts remain.
type InvalidOTPError struct {
	Remaining int
}

func (e *InvalidOTPError) Error() string {
	if e.Remaining == 1 {
		return "Invalid OTP. 1 attempt remaining"
	}
	return fmt.Sprintf("Invalid OTP. %d attempts remaining", e.Remaining)
}

func (e *InvalidOTPError) Code() string { return apperrors.ErrInvalidArgument }

func (e *InvalidOTPError) Unwrap() error { return nil }
