package provider

import (
	"fmt"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	razorpayProvider "github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider/razorpay"
	stripeProvider "github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider/stripe"
	"go.uber.org/zap"
)

// Factory creates payment providers based on the provider type
type Factory struct {
	config *config.PaymentConfig
	logger *zap.Logger
}

func NewFactory(cfg *config.PaymentConfig, logger *zap.Logger) *Factory {
	return &Factory{config: cfg, logger: logger}
}

// GetProvider returns a payment provider based on the provider type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.PaymentProvider, error) {
	switch providerType {
	case provider.ProviderTypeRazorpay:
		return f.createRazorpayProvider()
	case provider.ProviderTypeStripe:
		return f.createStripeProvider()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetProviderFromString defaults to Razorpay when s is empty.
func (f *Factory) GetProviderFromString(s string) (provider.PaymentProvider, error) {
	if s == "" {
		s = string(provider.ProviderTypeRazorpay)
	}
	return f.GetProvider(provider.ProviderType(s))
}

// Default returns the configured provider.
func (f *Factory) Default() (provider.PaymentProvider, error) {
	return f.GetProviderFromString(f.config.Provider)
}

func (f *Factory) createRazorpayProvider() (provider.PaymentProvider, error) {
	rc := f.config.Razorpay
	if rc.KeyID == "" || rc.KeySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret not configured")
	}
	return razorpayProvider.NewRazorpayProvider(rc.BaseURL, rc.KeyID, rc.KeySecret, rc.WebhookSecret, f.logger), nil
}

func (f *Factory) createStripeProvider() (provider.PaymentProvider, error) {
	sc := f.config.Stripe
	if sc.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key not configured")
	}
	return stripeProvider.NewStripeProvider(sc.SecretKey, sc.PublishableKey, sc.WebhookSecret, f.logger), nil
}
