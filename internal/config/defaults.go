package config

import (
	"time"

	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
)

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        ServiceName,
			Environment: "development",
			FrontendURL: "http://localhost:3000",
		},
		Server: ServerConfig{
			HTTP: HTTPConfig{Host: "0.0.0.0", Port: 5000, BodyLimit: "2M"},
			GRPC: GRPCConfig{Host: "0.0.0.0", Port: 5001},
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			SlowThreshold:   200 * time.Millisecond,

			ApplicationName:   "nursery-api",
			StatementTimeout:  30 * time.Second,
			ConnectAttempts:   5,
			ConnectRetryDelay: 2 * time.Second,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   logger.Config{Level: "info", Format: "json", Output: "stdout"},
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Session: SessionConfig{
			InactivityTimeout: 30 * time.Minute,
			SweepInterval:     5 * time.Minute,
		},
		Email: EmailConfig{Port: 587, FromName: "Plant Nursery"},
		Payment: PaymentConfig{
			Provider:     "razorpay",
			Currency:     "INR",
			MerchantName: "Plant Nursery",
			Razorpay:     RazorpayConfig{BaseURL: "https://api.razorpay.com/v1"},
		},
		Notification: NotificationConfig{
			PollInterval: 10 * time.Second,
			BatchSize:    20,
			MaxAttempts:  5,
			Channel:      "nursery:notifications",
		},
	}
}
