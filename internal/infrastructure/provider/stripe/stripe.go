package stripe

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"go.uber.org/zap"
)

// SignatureHeader carries the Stripe webhook signature.
const SignatureHeader = "Stripe-Signature"

// StripeProvider implements PaymentProvider with PaymentIntents.
type StripeProvider struct {
	api            *client.API
	publishableKey string
	webhookSecret  string
	logger         *zap.Logger
}

func NewStripeProvider(secretKey, publishableKey, webhookSecret string, logger *zap.Logger) *StripeProvider {
	return &StripeProvider{
		api:            client.New(secretKey, nil),
		publishableKey: publishableKey,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

func (s *StripeProvider) PublicKey() string {
	return s.publishableKey
}

func (s *StripeProvider) InitializePayment(ctx context.Context, req *provider.InitializePaymentRequest) (*provider.InitializePaymentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(req.Receipt),
	}
	params.Context = ctx
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		s.logger.Error("Failed to create Stripe PaymentIntent", zap.Error(err))
		return nil, &provider.ProviderError{Code: "API_ERROR", Message: "Stripe API request failed", Details: err.Error()}
	}

	s.logger.Info("Stripe PaymentIntent created",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount))

	return &provider.InitializePaymentResponse{
		GatewayOrderID: pi.ID,
		ClientSecret:   pi.ClientSecret,
		Status:         string(pi.Status),
		Amount:         pi.Amount,
		Currency:       string(pi.Currency),
	}, nil
}

// ConfirmPayment re-reads the PaymentIntent; the client-supplied signature is not used by Stripe.
func (s *StripeProvider) ConfirmPayment(ctx context.Context, req *provider.ConfirmPaymentRequest) (*provider.ConfirmPaymentResponse, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")

	pi, err := s.api.PaymentIntents.Get(req.GatewayOrderID, params)
	if err != nil {
		return nil, &provider.ProviderError{Code: "API_ERROR", Message: "Stripe API request failed", Details: err.Error()}
	}

	resp := &provider.ConfirmPaymentResponse{
		GatewayOrderID: pi.ID,
		PaymentID:      req.PaymentID,
		Status:         mapIntentStatus(pi.Status),
	}
	if pi.LatestCharge != nil {
		if req.PaymentID != "" && req.PaymentID != pi.LatestCharge.ID {
			return nil, provider.ErrSignatureMismatch
		}
		resp.PaymentID = pi.LatestCharge.ID
		if pi.LatestCharge.PaymentMethodDetails != nil {
			resp.PaymentMethod = string(pi.LatestCharge.PaymentMethodDetails.Type)
		}
	}
	if resp.Status == provider.PaymentStatusCompleted {
		now := time.Now()
		resp.PaidAt = &now
	}
	return resp, nil
}

func (s *StripeProvider) RefundPayment(ctx context.Context, req *provider.RefundRequest) (*provider.RefundResponse, error) {
	params := &stripe.RefundParams{Charge: stripe.String(req.PaymentID)}
	params.Context = ctx
	if req.Amount > 0 {
		params.Amount = stripe.Int64(req.Amount)
	}
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	refund, err := s.api.Refunds.New(params)
	if err != nil {
		s.logger.Error("Failed to create Stripe refund", zap.String("charge_id", req.PaymentID), zap.Error(err))
		return nil, &provider.ProviderError{Code: "API_ERROR", Message: "Stripe refund failed", Details: err.Error()}
	}
	return &provider.RefundResponse{RefundID: refund.ID, Status: string(refund.Status), Amount: refund.Amount}, nil
}

// HandleWebhook verifies the Stripe-Signature header and maps intent and charge events onto
// the normalized event types.
func (s *StripeProvider) HandleWebhook(ctx context.Context, payload []byte, signature string) (*provider.WebhookEvent, error) {
	if s.webhookSecret == "" {
		s.logger.Error("Stripe webhook received but no webhook secret is configured")
		return nil, provider.ErrSignatureMismatch
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		return nil, provider.ErrSignatureMismatch
	}

	out := &provider.WebhookEvent{
		EventID:   event.ID,
		RawType:   string(event.Type),
		CreatedAt: time.Unix(event.Created, 0),
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, &provider.ProviderError{Code: "PARSE_ERROR", Message: "Invalid payment intent", Details: err.Error()}
		}
		out.EventType = provider.EventPaymentCaptured
		if event.Type == stripe.EventTypePaymentIntentPaymentFailed {
			out.EventType = provider.EventPaymentFailed
		}
		out.GatewayOrderID = pi.ID
		out.OrderID = pi.Metadata["orderId"]
		out.Amount = pi.Amount
		if pi.LatestCharge != nil {
			out.PaymentID = pi.LatestCharge.ID
		}
	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, &provider.ProviderError{Code: "PARSE_ERROR", Message: "Invalid charge", Details: err.Error()}
		}
		out.EventType = provider.EventRefundProcessed
		out.PaymentID = charge.ID
		out.OrderID = charge.Metadata["orderId"]
		out.Amount = charge.AmountRefunded
		if charge.PaymentIntent != nil {
			out.GatewayOrderID = charge.PaymentIntent.ID
		}
	}

	return out, nil
}

func mapIntentStatus(status stripe.PaymentIntentStatus) provider.PaymentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return provider.PaymentStatusCompleted
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		return provider.PaymentStatusFailed
	default:
		return provider.PaymentStatusPending
	}
}
