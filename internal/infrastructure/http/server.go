package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/wekeepgrowing/nursery-backend/internal/adapter/handler/http"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/middleware/auth"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	usecases *usecase.UseCases
	checks   map[string]handlers.HealthCheck
}

func NewServer(cfg *config.Config, log *zap.Logger, usecases *usecase.UseCases, checks map[string]handlers.HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	logger.WithEchoLogger(e, log, !cfg.IsProduction())

	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	if cfg.Server.HTTP.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Server.HTTP.BodyLimit))
	}

	origins := cfg.Server.HTTP.AllowOrigins
	if len(origins) == 0 && cfg.Service.FrontendURL != "" {
		origins = []string{cfg.Service.FrontendURL}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		usecases: usecases,
		checks:   checks,
	}
	s.setupRoutes()
	return s
}

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Address()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	uc := s.usecases

	healthHandler := handlers.NewHealthHandler(s.config.Service.Name, s.config.Service.Version, s.checks, s.logger)
	authHandler := handlers.NewAuthHandler(uc.Auth, s.logger)
	catalogHandler := handlers.NewCatalogHandler(uc.Catalog, s.logger)
	inventoryHandler := handlers.NewInventoryHandler(uc.Inventory, s.logger)
	cartHandler := handlers.NewCartHandler(uc.Cart, s.logger)
	orderHandler := handlers.NewOrderHandler(uc.Order, uc.Payment, s.logger)
	paymentHandler := handlers.NewPaymentHandler(uc.Payment, s.logger)
	webhookHandler := handlers.NewWebhookHandler(uc.Payment, s.logger)
	userHandler := handlers.NewUserHandler(uc.User, s.logger)
	supportHandler := handlers.NewSupportHandler(uc.Support, s.logger)
	reviewHandler := handlers.NewReviewHandler(uc.Review, s.logger)
	contentHandler := handlers.NewContentHandler(uc.Content, s.logger)
	analyticsHandler := handlers.NewAnalyticsHandler(uc.Analytics, uc.Activity, s.logger)

	requireAuth := auth.JWTMiddleware(auth.JWTConfig{
		Tokens:   uc.Token,
		Sessions: uc.Session,
		Logger:   s.logger,
	})
	require := auth.RequireCapability

	api := s.echo.Group("/api")
	api.GET("/health", healthHandler.Health)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/signup/send-otp", authHandler.SendSignupOTP)
	authGroup.POST("/signup/verify", authHandler.VerifySignup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/token/refresh", authHandler.RefreshToken)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/logout", authHandler.Logout, requireAuth)

	// Catalog (public)
	products := api.Group("/products")
	products.GET("", catalogHandler.ListProducts)
	products.GET("/categories", catalogHandler.ListCategories)
	products.GET("/:slug", catalogHandler.GetProduct)

	// Content (public)
	content := api.Group("/content")
	content.GET("/blog", contentHandler.PublicPosts)
	content.GET("/plant-guides", contentHandler.PublicGuides)

	// Cart
	cart := api.Group("/cart", requireAuth)
	cart.GET("", cartHandler.GetCart)
	cart.GET("/validate", cartHandler.ValidateItems)
	cart.POST("/items", cartHandler.AddItem)
	cart.PATCH("/items/:cartItemId", cartHandler.UpdateItem)
	cart.DELETE("/items/:cartItemId", cartHandler.RemoveItem)
	cart.DELETE("", cartHandler.ClearCart)

	// Orders
	orders := api.Group("/orders", requireAuth)
	orders.POST("/create", orderHandler.CreateOrder)
	orders.POST("/:orderId/payment", orderHandler.ConfirmPayment)
	orders.GET("/:orderId/payment-options", orderHandler.PaymentOptions)
	orders.POST("/:orderId/cancel", orderHandler.CancelOrder)
	orders.GET("/orders/user", orderHandler.ListUserOrders)
	orders.GET("/orders/user/:orderId", orderHandler.GetUserOrder)

	// Payments
	payments := api.Group("/payments", requireAuth)
	payments.POST("/initiate", paymentHandler.Initiate)
	payments.POST("/verify", paymentHandler.Verify)

	// Webhooks authenticate by signature only
	webhooks := api.Group("/webhooks")
	webhooks.POST("/razorpay", webhookHandler.Razorpay)
	if s.config.Payment.Stripe.SecretKey != "" {
		webhooks.POST("/stripe", webhookHandler.Stripe)
	}

	// Users, profile and support
	users := api.Group("/users", requireAuth)
	users.GET("/profile", userHandler.GetProfile)
	users.POST("/profile", userHandler.SaveProfile)
	users.POST("/profile/create", userHandler.SaveProfile)
	users.POST("/request-email-change", userHandler.RequestEmailChange)
	users.POST("/verify-email-otp", userHandler.VerifyEmailOTP)
	users.POST("/support", supportHandler.CreateTicket)
	users.GET("/support/my-tickets", supportHandler.MyTickets)

	userAdmin := users.Group("/admin/users", require(entity.CapSuperAdmin))
	userAdmin.GET("", userHandler.ListUsers)
	userAdmin.GET("/:userId", userHandler.GetUser)
	userAdmin.PATCH("/:userId/status", userHandler.SetStatus)
	userAdmin.PATCH("/:userId/role", userHandler.SetRole)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.GET("/products/:productId/reviews", reviewHandler.ProductReviews)
	reviews.POST("/products/:productId/reviews", reviewHandler.Create, requireAuth)
	reviews.GET("/my-reviews", reviewHandler.MyReviews, requireAuth)

	// Back office
	// Every back-office route first requires an admin role of some kind.
	admin := api.Group("/admin", requireAuth, require(entity.CapAnyAdmin))
	admin.POST("/create-admin", authHandler.CreateAdmin, require(entity.CapSuperAdmin))

	inventory := admin.Group("/inventory", require(entity.CapManageInventory))
	inventory.GET("/status", inventoryHandler.ListStatus)
	inventory.GET("/low-stock", inventoryHandler.ListLowStock)
	inventory.GET("/movements", inventoryHandler.ListMovements)
	inventory.GET("/products/:productId/check", inventoryHandler.CheckStock)
	inventory.PATCH("/products/:productId/stock", inventoryHandler.UpdateStock)
	inventory.PATCH("/products/:productId/thresholds", inventoryHandler.UpdateThresholds)
	inventory.POST("/addproduct", catalogHandler.CreateProduct)
	inventory.GET("/categories", catalogHandler.AdminListCategories)
	inventory.POST("/categories", catalogHandler.CreateCategory)
	inventory.PUT("/categories/:categoryId", catalogHandler.UpdateCategory)
	inventory.DELETE("/categories/:categoryId", catalogHandler.DeleteCategory)

	orderAdmin := admin.Group("/orders", require(entity.CapManageOrders))
	orderAdmin.GET("", orderHandler.ListOrders)
	orderAdmin.GET("/:orderId", orderHandler.GetOrder)
	orderAdmin.PATCH("/:orderId/status", orderHandler.UpdateStatus)
	orderAdmin.GET("/:orderId/history", orderHandler.History)

	support := admin.Group("/support", require(entity.CapManageSupport))
	support.GET("/all", supportHandler.ListTickets)
	support.PUT("/:id", supportHandler.UpdateTicket)

	contentAdmin := admin.Group("/content", require(entity.CapManageContent))
	contentAdmin.GET("/blog", contentHandler.ListPosts)
	contentAdmin.POST("/blog", contentHandler.CreatePost)
	contentAdmin.GET("/blog/:id", contentHandler.GetPost)
	contentAdmin.PUT("/blog/:id", contentHandler.UpdatePost)
	contentAdmin.DELETE("/blog/:id", contentHandler.DeletePost)
	contentAdmin.GET("/plant-guides", contentHandler.ListGuides)
	contentAdmin.POST("/plant-guides", contentHandler.CreateGuide)
	contentAdmin.GET("/plant-guides/:id", contentHandler.GetGuide)
	contentAdmin.PUT("/plant-guides/:id", contentHandler.UpdateGuide)
	contentAdmin.DELETE("/plant-guides/:id", contentHandler.DeleteGuide)
	contentAdmin.GET("/reviews", reviewHandler.List)
	contentAdmin.PATCH("/reviews/:id", reviewHandler.Moderate)

	superAdmin := admin.Group("/superadmin", require(entity.CapSuperAdmin))
	superAdmin.GET("/analytics/users", analyticsHandler.Users)
	superAdmin.GET("/analytics/sales", analyticsHandler.Sales)
	superAdmin.GET("/platform/stats", analyticsHandler.PlatformStats)
	superAdmin.GET("/orders", orderHandler.ListOrders)
	superAdmin.GET("/orders/:orderId", orderHandler.GetOrder)
	superAdmin.POST("/admins/manage", userHandler.ManageAdmin)
	superAdmin.GET("/activity-logs", analyticsHandler.ActivityLogs)
}
