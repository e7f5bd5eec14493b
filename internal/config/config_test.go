package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := Default()
	cfg.JWT.AccessSecret = "access"
	cfg.JWT.RefreshSecret = "refresh"
	cfg.Database.Host = "localhost"
	cfg.Database.Name = "nursery"
	cfg.Payment.Razorpay.KeyID = "rzp_test_key"
	cfg.Payment.Razorpay.KeySecret = "rzp_secret"
	cfg.Payment.Razorpay.WebhookSecret = "whsec"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing jwt secrets",
			mutate:  func(c *Config) { c.JWT.RefreshSecret = "" },
			wantErr: "jwt.access_secret",
		},
		{
			name:    "shared jwt secret",
			mutate:  func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret },
			wantErr: "must differ",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Payment.Provider = "paypal" },
			wantErr: "unsupported payment.provider",
		},
		{
			name:    "razorpay webhook secret is required",
			mutate:  func(c *Config) { c.Payment.Razorpay.WebhookSecret = "" },
			wantErr: "payment.razorpay.webhook_secret",
		},
		{
			name: "razorpay webhook secret is required with stripe as default",
			mutate: func(c *Config) {
				c.Payment.Provider = "stripe"
				c.Payment.Stripe.SecretKey = "sk_test"
				c.Payment.Stripe.WebhookSecret = "whsec_stripe"
				c.Payment.Razorpay.WebhookSecret = ""
			},
			wantErr: "payment.razorpay.webhook_secret",
		},
		{
			name:    "razorpay keys",
			mutate:  func(c *Config) { c.Payment.Razorpay.KeySecret = "" },
			wantErr: "payment.razorpay.key_id",
		},
		{
			name:    "stripe enabled without webhook secret",
			mutate:  func(c *Config) { c.Payment.Stripe.SecretKey = "sk_test" },
			wantErr: "payment.stripe.webhook_secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		Name:     "nursery",
		User:     "nursery",
		Password: "secret",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=nursery password=secret dbname=nursery sslmode=disable", cfg.DSN())

	cfg.ApplicationName = "nursery-api"
	cfg.StatementTimeout = 30 * time.Second
	assert.Equal(t,
		"host=db port=5432 user=nursery password=secret dbname=nursery sslmode=disable application_name=nursery-api options='-c statement_timeout=30000'",
		cfg.DSN())
}
