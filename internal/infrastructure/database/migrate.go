package database

import (
	"fmt"

	"github.com/wekeepgrowing/nursery-backend/db"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates extensions, auto-migrates every model, then applies db/init.sql.
func Migrate(gdb *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	err := gdb.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.PasswordResetToken{},
		&model.Category{},
		&model.Product{},
		&model.InventoryMovement{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusHistory{},
		&model.PaymentTransaction{},
		&model.SupportTicket{},
		&model.ProductReview{},
		&model.BlogPost{},
		&model.PlantCareGuide{},
		&model.ActivityLog{},
		&model.NotificationOutbox{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	logger.Info("GORM auto-migrations completed successfully")

	if err := ApplySQL(gdb, db.InitSQL); err != nil {
		logger.Error("Failed to apply init.sql", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// ApplySQL runs a multi-statement script on the raw connection, bypassing gorm's prepared
// statement cache which rejects multiple commands.
func ApplySQL(gdb *gorm.DB, script string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	if _, err := sqlDB.Exec(script); err != nil {
		return fmt.Errorf("failed to apply sql script: %w", err)
	}
	return nil
}
