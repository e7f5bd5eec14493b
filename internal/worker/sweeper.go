package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper is the part of the session use case the sweeper needs.
type SessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// RunSessionSweeper removes idle sessions every interval until ctx is done.
func RunSessionSweeper(ctx context.Context, sessions SessionSweeper, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Session sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			if _, err := sessions.Sweep(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Session sweep failed", zap.Error(err))
			}
		}
	}
}
