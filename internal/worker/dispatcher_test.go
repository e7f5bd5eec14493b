package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

type mockOutbox struct {
	mock.Mock
}

func (m *mockOutbox) Enqueue(ctx context.Context, n *model.NotificationOutbox) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockOutbox) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*model.NotificationOutbox, error) {
	args := m.Called(ctx, now, limit, lease)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.NotificationOutbox), args.Error(1)
}

func (m *mockOutbox) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockOutbox) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	return m.Called(ctx, id, attempts, next, lastErr).Error(0)
}

func (m *mockOutbox) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return m.Called(ctx, id, attempts, lastErr).Error(0)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(kind entity.NotificationKind, payload []byte) (string, error) {
	args := m.Called(kind, payload)
	return args.String(0), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	return m.Called(ctx, to, subject, htmlBody).Error(0)
}

func newTestDispatcher(repo *mockOutbox, renderer *mockRenderer, sender *mockSender, now time.Time) *Dispatcher {
	d := NewDispatcher(repo, renderer, sender, nil, config.NotificationConfig{BatchSize: 10, MaxAttempts: 3}, zap.NewNop())
	d.now = func() time.Time { return now }
	return d
}

func outboxRow(attempts int) *model.NotificationOutbox {
	return &model.NotificationOutbox{
		ID:         uuid.New(),
		Kind:       entity.NotifyOrderConfirmation,
		Recipients: []string{"fern@example.com"},
		Subject:    "Order Confirmed - #ORD1",
		Payload:    []byte(`{"orderNumber":"ORD1"}`),
		Attempts:   attempts,
	}
}

func TestDispatchOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("delivered rows are marked sent", func(t *testing.T) {
		repo, renderer, sender := new(mockOutbox), new(mockRenderer), new(mockSender)
		d := newTestDispatcher(repo, renderer, sender, now)
		row := outboxRow(0)

		repo.On("ClaimDue", ctx, now, 10, claimLease).Return([]*model.NotificationOutbox{row}, nil)
		renderer.On("Render", row.Kind, mock.Anything).Return("<p>ok</p>", nil)
		sender.On("Send", ctx, []string{"fern@example.com"}, row.Subject, "<p>ok</p>").Return(nil)
		repo.On("MarkSent", ctx, row.ID, now).Return(nil)

		n, err := d.DispatchOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("send failure schedules a retry with backoff", func(t *testing.T) {
		repo, renderer, sender := new(mockOutbox), new(mockRenderer), new(mockSender)
		d := newTestDispatcher(repo, renderer, sender, now)
		row := outboxRow(1)

		repo.On("ClaimDue", ctx, now, 10, claimLease).Return([]*model.NotificationOutbox{row}, nil)
		renderer.On("Render", row.Kind, mock.Anything).Return("<p>ok</p>", nil)
		sender.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))
		repo.On("MarkRetry", ctx, row.ID, 2, now.Add(time.Minute), "smtp timeout").Return(nil)

		_, err := d.DispatchOnce(ctx)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("last attempt marks the row failed", func(t *testing.T) {
		repo, renderer, sender := new(mockOutbox), new(mockRenderer), new(mockSender)
		d := newTestDispatcher(repo, renderer, sender, now)
		row := outboxRow(2)

		repo.On("ClaimDue", ctx, now, 10, claimLease).Return([]*model.NotificationOutbox{row}, nil)
		renderer.On("Render", row.Kind, mock.Anything).Return("<p>ok</p>", nil)
		sender.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("mailbox unavailable"))
		repo.On("MarkFailed", ctx, row.ID, 3, "mailbox unavailable").Return(nil)

		_, err := d.DispatchOnce(ctx)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "MarkRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("render failure is not retried", func(t *testing.T) {
		repo, renderer, sender := new(mockOutbox), new(mockRenderer), new(mockSender)
		d := newTestDispatcher(repo, renderer, sender, now)
		row := outboxRow(0)

		repo.On("ClaimDue", ctx, now, 10, claimLease).Return([]*model.NotificationOutbox{row}, nil)
		renderer.On("Render", row.Kind, mock.Anything).Return("", errors.New("unknown template"))
		repo.On("MarkFailed", ctx, row.ID, 1, "unknown template").Return(nil)

		_, err := d.DispatchOnce(ctx)

		require.NoError(t, err)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("claim error is returned", func(t *testing.T) {
		repo := new(mockOutbox)
		d := newTestDispatcher(repo, new(mockRenderer), new(mockSender), now)
		repo.On("ClaimDue", ctx, now, 10, claimLease).Return(nil, errors.New("connection reset"))

		_, err := d.DispatchOnce(ctx)
		assert.Error(t, err)
	})
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 30*time.Second, Backoff(0))
	assert.Equal(t, 30*time.Second, Backoff(1))
	assert.Equal(t, time.Minute, Backoff(2))
	assert.Equal(t, 2*time.Minute, Backoff(3))
	assert.Equal(t, 16*time.Minute, Backoff(6))
	assert.Equal(t, time.Hour, Backoff(8))
	assert.Equal(t, time.Hour, Backoff(200))
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := new(mockOutbox)
	d := newTestDispatcher(repo, new(mockRenderer), new(mockSender), time.Now())
	repo.On("ClaimDue", mock.Anything, mock.Anything, 10, claimLease).Return([]*model.NotificationOutbox{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
