package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
)

// SessionPrefix namespaces session keys.
const SessionPrefix = "session:"

type redisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSessionStore stores one JSON session per user. ttl is the inactivity timeout and is
// renewed on every Touch.
func NewRedisSessionStore(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) domainRepo.SessionStore {
	return &redisSessionStore{client: client, ttl: ttl, logger: logger}
}

func sessionKey(userID uuid.UUID) string {
	return SessionPrefix + userID.String()
}

func (s *redisSessionStore) Get(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	return s.read(ctx, sessionKey(userID))
}

func (s *redisSessionStore) read(ctx context.Context, key string) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *redisSessionStore) Set(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.UserID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) SetIfAbsent(ctx context.Context, session *entity.Session) (bool, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := s.client.SetNX(ctx, sessionKey(session.UserID), raw, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create session: %w", err)
	}
	return ok, nil
}

// Touch uses SET XX so a session deleted concurrently is not resurrected.
func (s *redisSessionStore) Touch(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	session, err := s.Get(ctx, userID)
	if err != nil || session == nil {
		return false, err
	}
	session.Timestamp = at

	raw, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := s.client.SetXX(ctx, sessionKey(userID), raw, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to touch session: %w", err)
	}
	return ok, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep scans session keys and removes entries whose timestamp is older than cutoff.
// Redis expiry normally gets there first; this catches keys written with a longer TTL.
func (s *redisSessionStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, SessionPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		session, err := s.read(ctx, key)
		if err != nil {
			s.logger.Warn("Skipping unreadable session", zap.String("key", key), zap.Error(err))
			continue
		}
		if session == nil || !session.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete idle session: %w", err)
		}
		removed++
		s.logger.Debug("Removed idle session", zap.String("user_id", strings.TrimPrefix(key, SessionPrefix)))
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return removed, nil
}
