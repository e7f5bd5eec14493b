package razorpay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Razorpay-Signature"

type webhookEntity struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Amount  int64             `json:"amount"`
	Method  string            `json:"method"`
	Status  string            `json:"status"`
	Notes   map[string]string `json:"notes"`
}

type webhookPayload struct {
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Payment *struct {
			Entity webhookEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity webhookEntity `json:"entity"`
		} `json:"order"`
		Refund *struct {
			Entity webhookEntity `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

var supportedEvents = map[string]provider.EventType{
	"payment.captured": provider.EventPaymentCaptured,
	"payment.failed":   provider.EventPaymentFailed,
	"refund.processed": provider.EventRefundProcessed,
	"order.paid":       provider.EventOrderPaid,
}

// HandleWebhook verifies HMAC-SHA256(raw body) with the webhook secret before parsing anything.
// Without a secret every webhook is rejected, since an empty HMAC key is public.
func (p *RazorpayProvider) HandleWebhook(ctx context.Context, payload []byte, signature string) (*provider.WebhookEvent, error) {
	if p.webhookSecret == "" {
		p.logger.Error("Razorpay webhook received but no webhook secret is configured")
		return nil, provider.ErrSignatureMismatch
	}
	if signature == "" || !VerifySignature(string(payload), signature, p.webhookSecret) {
		p.logger.Warn("Razorpay webhook signature mismatch")
		return nil, provider.ErrSignatureMismatch
	}

	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &provider.ProviderError{Code: "PARSE_ERROR", Message: "Invalid webhook payload", Details: err.Error()}
	}

	event := &provider.WebhookEvent{
		EventType: supportedEvents[body.Event],
		RawType:   body.Event,
		CreatedAt: time.Unix(body.CreatedAt, 0),
	}

	// The internal order id is carried in notes.orderId, set when the gateway order was created.
	if pl := body.Payload.Payment; pl != nil {
		event.PaymentID = pl.Entity.ID
		event.GatewayOrderID = pl.Entity.OrderID
		event.PaymentMethod = pl.Entity.Method
		event.Amount = pl.Entity.Amount
		event.OrderID = pl.Entity.Notes["orderId"]
	}
	if pl := body.Payload.Order; pl != nil {
		if event.GatewayOrderID == "" {
			event.GatewayOrderID = pl.Entity.ID
		}
		if event.OrderID == "" {
			event.OrderID = pl.Entity.Notes["orderId"]
		}
	}
	if pl := body.Payload.Refund; pl != nil {
		if event.OrderID == "" {
			event.OrderID = pl.Entity.Notes["orderId"]
		}
		event.Amount = pl.Entity.Amount
	}

	var data map[string]interface{}
	if json.Unmarshal(payload, &data) == nil {
		event.Data = data
	}
	return event, nil
}
