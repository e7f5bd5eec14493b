package provider

import (
	"context"
	"time"
)

// PaymentProvider is a payment gateway (Razorpay, Stripe).
type PaymentProvider interface {
	// InitializePayment creates a gateway order or intent for an amount in minor units.
	InitializePayment(ctx context.Context, req *InitializePaymentRequest) (*InitializePaymentResponse, error)

	// ConfirmPayment verifies a client-side payment callback. It returns ErrSignatureMismatch
	// when the callback cannot be trusted.
	ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error)

	// RefundPayment refunds a captured payment in full.
	RefundPayment(ctx context.Context, req *RefundRequest) (*RefundResponse, error)

	// HandleWebhook verifies the signature over the raw payload and normalizes the event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)

	// PublicKey is the key the storefront widget needs.
	PublicKey() string

	GetProviderName() string
}

type InitializePaymentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type InitializePaymentResponse struct {
	GatewayOrderID string                 `json:"gateway_order_id"`
	ClientSecret   string                 `json:"client_secret,omitempty"`
	Status         string                 `json:"status"`
	Amount         int64                  `json:"amount"`
	Currency       string                 `json:"currency"`
	ProviderData   map[string]interface{} `json:"provider_data,omitempty"`
}

type ConfirmPaymentRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

type ConfirmPaymentResponse struct {
	GatewayOrderID string                 `json:"gateway_order_id"`
	PaymentID      string                 `json:"payment_id"`
	Status         PaymentStatus          `json:"status"`
	PaymentMethod  string                 `json:"payment_method,omitempty"`
	PaidAt         *time.Time             `json:"paid_at,omitempty"`
	ProviderData   map[string]interface{} `json:"provider_data,omitempty"`
}

type RefundRequest struct {
	PaymentID string            `json:"payment_id"`
	Amount    int64             `json:"amount"`
	Notes     map[string]string `json:"notes,omitempty"`
}

type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
}

// EventType is a gateway event normalized across providers.
type EventType string

const (
	EventPaymentCaptured EventType = "payment.captured"
	EventPaymentFailed   EventType = "payment.failed"
	EventRefundProcessed EventType = "refund.processed"
	EventOrderPaid       EventType = "order.paid"
)

// WebhookEvent is a verified, normalized webhook.
type WebhookEvent struct {
	EventID        string                 `json:"event_id,omitempty"`
	EventType      EventType              `json:"event_type"`
	RawType        string                 `json:"raw_type"`
	OrderID        string                 `json:"order_id,omitempty"`
	GatewayOrderID string                 `json:"gateway_order_id,omitempty"`
	PaymentID      string                 `json:"payment_id,omitempty"`
	PaymentMethod  string                 `json:"payment_method,omitempty"`
	Amount         int64                  `json:"amount,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type ProviderType string

const (
	ProviderTypeRazorpay ProviderType = "razorpay"
	ProviderTypeStripe   ProviderType = "stripe"
)

// ProviderError is returned for gateway API failures.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// ErrSignatureMismatch is returned when a signature does not verify.
var ErrSignatureMismatch = &ProviderError{Code: "SIGNATURE_MISMATCH", Message: "signature verification failed"}
