//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/adapter/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/testhelpers"
)

func TestRedisSessionStore(t *testing.T) {
	client := testhelpers.StartRedis(t)
	sessions := repository.NewRedisSessionStore(client, 30*time.Minute, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	created, err := sessions.SetIfAbsent(ctx, &entity.Session{UserID: userID, Timestamp: time.Now()})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = sessions.SetIfAbsent(ctx, &entity.Session{UserID: userID, Timestamp: time.Now()})
	require.NoError(t, err)
	assert.False(t, created, "a second session must not replace the first")

	ok, err := sessions.Touch(ctx, userID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, sessions.Delete(ctx, userID))
	ok, err = sessions.Touch(ctx, userID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "touch must not resurrect a deleted session")
}

func TestRedisSessionStoreSweep(t *testing.T) {
	client := testhelpers.StartRedis(t)
	sessions := repository.NewRedisSessionStore(client, time.Hour, zap.NewNop())
	ctx := context.Background()

	idle := uuid.New()
	active := uuid.New()
	require.NoError(t, sessions.Set(ctx, &entity.Session{UserID: idle, Timestamp: time.Now().Add(-45 * time.Minute)}))
	require.NoError(t, sessions.Set(ctx, &entity.Session{UserID: active, Timestamp: time.Now()}))

	removed, err := sessions.Sweep(ctx, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	s, err := sessions.Get(ctx, idle)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = sessions.Get(ctx, active)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestRedisOTPStore(t *testing.T) {
	client := testhelpers.StartRedis(t)
	otps := repository.NewRedisOTPStore(client)
	ctx := context.Background()
	key := "otp_code:signup:fern@example.com"

	require.NoError(t, otps.Save(ctx, key, &entity.OTPRecord{Code: "123456"}, time.Minute))

	record, err := otps.ConsumeAttempt(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.Attempts)
	assert.Equal(t, "123456", record.Code)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := otps.ConsumeAttempt(ctx, key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	record, err = otps.ConsumeAttempt(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 7, record.Attempts, "every consumption is counted")

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, otps.Delete(ctx, key))
	record, err = otps.ConsumeAttempt(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, record)
}
