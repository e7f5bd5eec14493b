package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
}

type HTTPConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	BodyLimit    string   `mapstructure:"body_limit"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type GRPCConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Enabled bool   `mapstructure:"enabled"`
}

func (c GRPCConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`

	// ApplicationName tags sessions in pg_stat_activity.
	ApplicationName  string        `mapstructure:"application_name"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	// ConnectAttempts bounds how long startup waits for postgres to come up.
	ConnectAttempts   int           `mapstructure:"connect_attempts"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

// DSN returns the libpq connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	if c.ApplicationName != "" {
		dsn += fmt.Sprintf(" application_name=%s", c.ApplicationName)
	}
	if c.StatementTimeout > 0 {
		dsn += fmt.Sprintf(" options='-c statement_timeout=%d'", c.StatementTimeout.Milliseconds())
	}
	return dsn
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type SessionConfig struct {
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type PaymentConfig struct {
	Provider     string         `mapstructure:"provider"`
	Currency     string         `mapstructure:"currency"`
	MerchantName string         `mapstructure:"merchant_name"`
	Razorpay     RazorpayConfig `mapstructure:"razorpay"`
	Stripe       StripeConfig   `mapstructure:"stripe"`
}

type RazorpayConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	PublishableKey string `mapstructure:"publishable_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

// OrderConfig controls order pricing. Rates are fractions, e.g. 0.05 for 5%.
type OrderConfig struct {
	TaxRate               float64 `mapstructure:"tax_rate"`
	ShippingFee           float64 `mapstructure:"shipping_fee"`
	FreeShippingThreshold float64 `mapstructure:"free_shipping_threshold"`
}

// Pricing converts the float settings into decimals.
func (c OrderConfig) Pricing() (taxRate, shippingFee, freeShippingOver decimal.Decimal) {
	return decimal.NewFromFloat(c.TaxRate), decimal.NewFromFloat(c.ShippingFee), decimal.NewFromFloat(c.FreeShippingThreshold)
}

type NotificationConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	Channel      string        `mapstructure:"channel"`
}
