package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single live login of a user.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"user_agent"`
}

// Idle reports whether the session has been inactive longer than timeout at now.
func (s *Session) Idle(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.Timestamp) > timeout
}

// PendingSignup is held alongside the signup OTP until the code is verified.
type PendingSignup struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OTPRecord is a one-time code with a bounded attempt counter.
type OTPRecord struct {
	Code     string         `json:"code"`
	Attempts int            `json:"attempts"`
	Signup   *PendingSignup `json:"signup,omitempty"`
	NewEmail string         `json:"new_email,omitempty"`
	UserID   *uuid.UUID     `json:"user_id,omitempty"`
}

// MaxOTPAttempts is the number of wrong guesses before a code is discarded.
const MaxOTPAttempts = 3

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims identifies the caller of an authenticated request.
type Claims struct {
	UserID uuid.UUID
	Role   Role
}
