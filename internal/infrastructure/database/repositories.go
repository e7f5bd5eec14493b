package database

import (
	"github.com/redis/go-redis/v9"
	"github.com/wekeepgrowing/nursery-backend/internal/adapter/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRepositories wires PostgreSQL and Redis backed repositories.
func NewRepositories(db *gorm.DB, rdb redis.UniversalClient, cfg *config.Config, logger *zap.Logger) *domainRepo.Repositories {
	return &domainRepo.Repositories{
		User:          repository.NewUserRepository(db, logger),
		Profile:       repository.NewProfileRepository(db),
		PasswordReset: repository.NewPasswordResetRepository(db),
		Category:      repository.NewCategoryRepository(db, logger),
		Product:       repository.NewProductRepository(db, logger),
		Inventory:     repository.NewInventoryRepository(db, logger),
		Cart:          repository.NewCartRepository(db, logger),
		Order:         repository.NewOrderRepository(db, logger),
		Payment:       repository.NewPaymentRepository(db, logger),
		Ticket:        repository.NewSupportTicketRepository(db),
		Review:        repository.NewReviewRepository(db),
		Content:       repository.NewContentRepository(db),
		Activity:      repository.NewActivityLogRepository(db),
		Notification:  repository.NewNotificationRepository(db),
		Analytics:     repository.NewAnalyticsRepository(db),
		Sessions:      repository.NewRedisSessionStore(rdb, cfg.Session.InactivityTimeout, logger),
		OTPs:          repository.NewRedisOTPStore(rdb),
	}
}
