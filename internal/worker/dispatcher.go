package worker

import (
	"context"
	"math"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/pkg/messaging"
	"go.uber.org/zap"
)

// Renderer turns an outbox payload into an HTML body.
type Renderer interface {
	Render(kind entity.NotificationKind, payload []byte) (string, error)
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

const (
	baseBackoff = 30 * time.Second
	maxBackoff  = time.Hour
	claimLease  = 5 * time.Minute
)

// Dispatcher drains the notification outbox. It polls on an interval and
// wakes early when a message arrives on the notification channel.
type Dispatcher struct {
	repo         repository.NotificationRepository
	renderer     Renderer
	sender       Sender
	bus          messaging.Bus
	channel      string
	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
	logger       *zap.Logger
	now          func() time.Time
}

func NewDispatcher(
	repo repository.NotificationRepository,
	renderer Renderer,
	sender Sender,
	bus messaging.Bus,
	cfg config.NotificationConfig,
	logger *zap.Logger,
) *Dispatcher {
	d := &Dispatcher{
		repo:         repo,
		renderer:     renderer,
		sender:       sender,
		bus:          bus,
		channel:      cfg.Channel,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxAttempts:  cfg.MaxAttempts,
		logger:       logger,
		now:          time.Now,
	}
	if d.pollInterval <= 0 {
		d.pollInterval = 10 * time.Second
	}
	if d.batchSize <= 0 {
		d.batchSize = 20
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = 5
	}
	return d
}

// Run blocks until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	var wake <-chan messaging.Message
	if d.bus != nil && d.channel != "" {
		ch, err := d.bus.Subscribe(ctx, d.channel)
		if err != nil {
			d.logger.Warn("Notification wake-ups disabled, polling only", zap.Error(err))
		} else {
			wake = ch
		}
	}

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	d.logger.Info("Notification dispatcher started",
		zap.Duration("poll_interval", d.pollInterval),
		zap.Int("batch_size", d.batchSize))

	for {
		d.drain(ctx)

		select {
		case <-ctx.Done():
			d.logger.Info("Notification dispatcher stopped")
			return
		case <-ticker.C:
		case _, ok := <-wake:
			if !ok {
				wake = nil
			}
		}
	}
}

// drain processes batches until no due rows are left.
func (d *Dispatcher) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := d.DispatchOnce(ctx)
		if err != nil {
			d.logger.Error("Failed to claim notifications", zap.Error(err))
			return
		}
		if n < d.batchSize {
			return
		}
	}
}

// DispatchOnce claims one batch and tries to deliver each row. It returns the
// number of rows claimed.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	rows, err := d.repo.ClaimDue(ctx, d.now(), d.batchSize, claimLease)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		d.deliver(ctx, row)
	}
	return len(rows), nil
}

func (d *Dispatcher) deliver(ctx context.Context, row *model.NotificationOutbox) {
	log := d.logger.With(
		zap.String("notification_id", row.ID.String()),
		zap.String("kind", string(row.Kind)))

	body, err := d.renderer.Render(row.Kind, row.Payload)
	if err != nil {
		// A template error will not fix itself on retry.
		log.Error("Failed to render notification", zap.Error(err))
		if markErr := d.repo.MarkFailed(ctx, row.ID, row.Attempts+1, err.Error()); markErr != nil {
			log.Error("Failed to mark notification failed", zap.Error(markErr))
		}
		return
	}

	if err := d.sender.Send(ctx, row.Recipients, row.Subject, body); err != nil {
		d.retry(ctx, log, row, err)
		return
	}

	if err := d.repo.MarkSent(ctx, row.ID, d.now()); err != nil {
		log.Error("Failed to mark notification sent", zap.Error(err))
		return
	}
	log.Info("Notification sent", zap.Int("recipients", len(row.Recipients)))
}

func (d *Dispatcher) retry(ctx context.Context, log *zap.Logger, row *model.NotificationOutbox, sendErr error) {
	attempts := row.Attempts + 1
	if attempts >= d.maxAttempts {
		log.Error("Notification delivery failed permanently",
			zap.Int("attempts", attempts),
			zap.Error(sendErr))
		if err := d.repo.MarkFailed(ctx, row.ID, attempts, sendErr.Error()); err != nil {
			log.Error("Failed to mark notification failed", zap.Error(err))
		}
		return
	}

	next := d.now().Add(Backoff(attempts))
	log.Warn("Notification delivery failed, will retry",
		zap.Int("attempts", attempts),
		zap.Time("next_attempt_at", next),
		zap.Error(sendErr))
	if err := d.repo.MarkRetry(ctx, row.ID, attempts, next, sendErr.Error()); err != nil {
		log.Error("Failed to schedule notification retry", zap.Error(err))
	}
}

// Backoff returns the delay before retry number attempts: 30s, 1m, 2m, ... capped at an hour.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := time.Duration(float64(baseBackoff) * math.Pow(2, float64(attempts-1)))
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}
