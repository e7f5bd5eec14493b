package config

import (
	"fmt"

	pkgconfig "github.com/wekeepgrowing/nursery-backend/pkg/config"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
)

// ServiceName selects configs/<env>/nursery.yaml and the NURSERY_ env prefix.
const ServiceName = "nursery"

type Config struct {
	Service      ServiceConfig      `mapstructure:"service"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Log          logger.Config      `mapstructure:"log"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Session      SessionConfig      `mapstructure:"session"`
	Email        EmailConfig        `mapstructure:"email"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	Order        OrderConfig        `mapstructure:"order"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// secretKeys are usually supplied only through the environment.
var secretKeys = []string{
	"database.password",
	"redis.password",
	"jwt.access_secret",
	"jwt.refresh_secret",
	"email.password",
	"payment.razorpay.key_id",
	"payment.razorpay.key_secret",
	"payment.razorpay.webhook_secret",
	"payment.stripe.secret_key",
	"payment.stripe.webhook_secret",
}

// LoadConfig reads the layered configuration and validates required values.
func LoadConfig() (*Config, error) {
	raw, err := pkgconfig.Load(ServiceName)
	if err != nil {
		return nil, err
	}
	if err := pkgconfig.BindEnv(raw, secretKeys...); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := raw.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the process cannot start without.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt.access_secret and jwt.refresh_secret are required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("jwt access and refresh secrets must differ")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database.host and database.name are required")
	}
	switch c.Payment.Provider {
	case "razorpay", "stripe":
	default:
		return fmt.Errorf("unsupported payment.provider %q", c.Payment.Provider)
	}
	// The Razorpay webhook route is always mounted; the Stripe one only with a secret key.
	if c.Payment.Razorpay.WebhookSecret == "" {
		return fmt.Errorf("payment.razorpay.webhook_secret is required")
	}
	if c.Payment.Provider == "razorpay" && (c.Payment.Razorpay.KeyID == "" || c.Payment.Razorpay.KeySecret == "") {
		return fmt.Errorf("payment.razorpay.key_id and payment.razorpay.key_secret are required")
	}
	if c.Payment.Stripe.SecretKey != "" && c.Payment.Stripe.WebhookSecret == "" {
		return fmt.Errorf("payment.stripe.webhook_secret is required when stripe is enabled")
	}
	return nil
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production"
}
