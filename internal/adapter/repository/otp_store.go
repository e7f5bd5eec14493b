package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
)

// consumeAttemptScript bumps the attempts field of the JSON record without touching its TTL
// and returns the updated record, so concurrent verifications each see a distinct count.
var consumeAttemptScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return false end
local rec = cjson.decode(raw)
rec.attempts = (rec.attempts or 0) + 1
local out = cjson.encode(rec)
redis.call('SET', KEYS[1], out, 'KEEPTTL')
return out
`)

type redisOTPStore struct {
	client redis.UniversalClient
}

func NewRedisOTPStore(client redis.UniversalClient) domainRepo.OTPStore {
	return &redisOTPStore{client: client}
}

func (s *redisOTPStore) Save(ctx context.Context, key string, record *entity.OTPRecord, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode otp: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save otp: %w", err)
	}
	return nil
}

func (s *redisOTPStore) ConsumeAttempt(ctx context.Context, key string) (*entity.OTPRecord, error) {
	raw, err := consumeAttemptScript.Run(ctx, s.client, []string{key}).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to consume otp attempt: %w", err)
	}
	var record entity.OTPRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode otp: %w", err)
	}
	return &record, nil
}

func (s *redisOTPStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}
