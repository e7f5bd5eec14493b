package database

import (
	"context"
	"fmt"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection opens the nursery database and waits until it answers a ping.
// Unique violations are translated to gorm.ErrDuplicatedKey so repositories can
// map them to conflicts.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, log *zap.Logger, development bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if development {
		level = gormlogger.Info
	}
	gormLog := logger.NewGormLogger(log, level, cfg.SlowThreshold, true)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   gormLog,
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := waitForDatabase(ctx, sqlDB.PingContext, cfg.ConnectAttempts, cfg.ConnectRetryDelay, log); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.String("application_name", cfg.ApplicationName),
		zap.Duration("statement_timeout", cfg.StatementTimeout),
	)
	return db, nil
}

// waitForDatabase pings up to attempts times, sleeping delay between tries.
// Compose and CI start postgres next to the API, so the first pings often fail.
func waitForDatabase(ctx context.Context, ping func(context.Context) error, attempts int, delay time.Duration, log *zap.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for database: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}

// Close closes the database connection
func Close(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	log.Info("Database connection closed")
	return nil
}
