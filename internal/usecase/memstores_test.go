package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
)

// memOTPStore consumes attempts under a lock, like the Redis script does.
type memOTPStore struct {
	mu      sync.Mutex
	records map[string]entity.OTPRecord
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{records: map[string]entity.OTPRecord{}}
}

func (s *memOTPStore) Save(ctx context.Context, key string, record *entity.OTPRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = *record
	return nil
}

func (s *memOTPStore) ConsumeAttempt(ctx context.Context, key string) (*entity.OTPRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	rec.Attempts++
	s.records[key] = rec
	return &rec, nil
}

func (s *memOTPStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[uuid.UUID]entity.Session{}}
}

func (s *memSessionStore) Get(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *memSessionStore) Set(ctx context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = *session
	return nil
}

func (s *memSessionStore) SetIfAbsent(ctx context.Context, session *entity.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.UserID]; ok {
		return false, nil
	}
	s.sessions[session.UserID] = *session
	return true, nil
}

func (s *memSessionStore) Touch(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return false, nil
	}
	session.Timestamp = at
	s.sessions[userID] = session
	return true, nil
}

func (s *memSessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *memSessionStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.Timestamp.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
