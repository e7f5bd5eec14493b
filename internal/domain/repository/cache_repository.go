package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
)

// SessionStore tracks at most one live session per user.
type SessionStore interface {
	// Get returns nil, nil when the user has no session.
	Get(ctx context.Context, userID uuid.UUID) (*entity.Session, error)
	Set(ctx context.Context, session *entity.Session) error
	// SetIfAbsent stores the session only when none exists and reports whether it did.
	SetIfAbsent(ctx context.Context, session *entity.Session) (bool, error)
	// Touch refreshes the timestamp and TTL; it returns false when the session is gone.
	Touch(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	// Sweep removes sessions idle since before cutoff and returns how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// OTPStore holds one-time codes keyed by purpose and address.
type OTPStore interface {
	Save(ctx context.Context, key string, record *entity.OTPRecord, ttl time.Duration) error
	// ConsumeAttempt atomically bumps the attempt counter, keeping the remaining TTL, and
	// returns the updated record. It returns nil, nil when the key does not exist.
	ConsumeAttempt(ctx context.Context, key string) (*entity.OTPRecord, error)
	Delete(ctx context.Context, key string) error
}
