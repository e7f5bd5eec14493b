package usecase

import (
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/constants"
	"github.com/wekeepgrowing/nursery-backend/pkg/messaging"
	"go.uber.org/zap"
)

// UseCases holds every use case the transports call into.
type UseCases struct {
	Auth         *AuthUseCase
	Token        *TokenUseCase
	Session      *SessionUseCase
	Notification *NotificationUseCase
	Activity     *ActivityUseCase
	Inventory    *InventoryUseCase
	Catalog      *CatalogUseCase
	Cart         *CartUseCase
	Order        *OrderUseCase
	Payment      *PaymentUseCase
	User         *UserUseCase
	Support      *SupportUseCase
	Review       *ReviewUseCase
	Content      *ContentUseCase
	Analytics    *AnalyticsUseCase
}

// SetupUseCases builds the use cases in dependency order.
func SetupUseCases(
	logger *zap.Logger,
	cfg *config.Config,
	repos *repository.Repositories,
	bus messaging.Bus,
	gateways PaymentGateways,
) *UseCases {
	// 1. Shared building blocks
	notificationUC := NewNotificationUseCase(repos.Notification, bus, cfg.Notification.Channel, logger)
	activityUC := NewActivityUseCase(repos.Activity, logger)
	tokenUC := NewTokenUseCase(cfg.JWT)
	sessionUC := NewSessionUseCase(repos.Sessions, cfg.Session.InactivityTimeout, logger)

	// 2. Accounts
	authUC := NewAuthUseCase(
		logger,
		repos.User,
		repos.PasswordReset,
		repos.OTPs,
		tokenUC,
		sessionUC,
		notificationUC,
		activityUC,
		cfg.Service.FrontendURL,
	)
	userUC := NewUserUseCase(logger, repos.User, repos.Profile, repos.OTPs, sessionUC, notificationUC, activityUC)

	// 3. Catalog and stock
	inventoryUC := NewInventoryUseCase(logger, repos.Inventory, repos.Product, repos.User, notificationUC, activityUC)
	catalogUC := NewCatalogUseCase(logger, repos.Product, repos.Category, repos.Review, inventoryUC, activityUC)
	cartUC := NewCartUseCase(logger, repos.Cart, repos.Inventory)

	// 4. Orders and payments
	taxRate, shippingFee, freeShippingOver := cfg.Order.Pricing()
	pricing := entity.Pricing{TaxRate: taxRate, ShippingFee: shippingFee, FreeShippingOver: freeShippingOver}
	orderUC := NewOrderUseCase(
		logger,
		repos.Order,
		repos.Cart,
		repos.User,
		repos.Payment,
		gateways,
		inventoryUC,
		notificationUC,
		activityUC,
		pricing,
	)

	currency := cfg.Payment.Currency
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	merchant := cfg.Payment.MerchantName
	if merchant == "" {
		merchant = constants.DefaultMerchantName
	}
	paymentUC := NewPaymentUseCase(logger, repos.Order, repos.Payment, repos.User, repos.Profile, gateways, orderUC, currency, merchant)

	// 5. Back office
	supportUC := NewSupportUseCase(logger, repos.Ticket, repos.User, repos.Profile, notificationUC, activityUC)
	reviewUC := NewReviewUseCase(logger, repos.Review, repos.Product)
	contentUC := NewContentUseCase(logger, repos.Content)
	analyticsUC := NewAnalyticsUseCase(logger, repos.Analytics)

	return &UseCases{
		Auth:         authUC,
		Token:        tokenUC,
		Session:      sessionUC,
		Notification: notificationUC,
		Activity:     activityUC,
		Inventory:    inventoryUC,
		Catalog:      catalogUC,
		Cart:         cartUC,
		Order:        orderUC,
		Payment:      paymentUC,
		User:         userUC,
		Support:      supportUC,
		Review:       reviewUC,
		Content:      contentUC,
		Analytics:    analyticsUC,
	}
}
