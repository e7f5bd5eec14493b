package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"go.uber.org/zap"
)

const (
	testKeySecret     = "key_secret"
	testWebhookSecret = "whsec"
)

func newTestProvider(baseURL string) *RazorpayProvider {
	return NewRazorpayProvider(baseURL, "rzp_test_key", testKeySecret, testWebhookSecret, zap.NewNop())
}

func TestSignAndVerify(t *testing.T) {
	sig := Sign("order_1|pay_1", "secret")

	assert.True(t, VerifySignature("order_1|pay_1", sig, "secret"))
	assert.False(t, VerifySignature("order_1|pay_2", sig, "secret"))
	assert.False(t, VerifySignature("order_1|pay_1", sig, "other"))
	assert.False(t, VerifySignature("order_1|pay_1", "", "secret"))
}

func TestConfirmPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_1", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, testKeySecret, pass)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "pay_1", "method": "upi", "status": "captured"})
	}))
	defer server.Close()

	p := newTestProvider(server.URL)

	t.Run("valid signature", func(t *testing.T) {
		resp, err := p.ConfirmPayment(context.Background(), &provider.ConfirmPaymentRequest{
			GatewayOrderID: "order_1",
			PaymentID:      "pay_1",
			Signature:      Sign("order_1|pay_1", testKeySecret),
		})

		require.NoError(t, err)
		assert.Equal(t, provider.PaymentStatusCompleted, resp.Status)
		assert.Equal(t, "upi", resp.PaymentMethod)
	})

	t.Run("invalid signature", func(t *testing.T) {
		_, err := p.ConfirmPayment(context.Background(), &provider.ConfirmPaymentRequest{
			GatewayOrderID: "order_1",
			PaymentID:      "pay_1",
			Signature:      Sign("order_1|pay_1", "wrong"),
		})

		assert.ErrorIs(t, err, provider.ErrSignatureMismatch)
	})
}

func TestRefundPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/pay_9/refund", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 49900, body["amount"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "rfnd_1", "amount": 49900, "status": "processed"})
	}))
	defer server.Close()

	resp, err := newTestProvider(server.URL).RefundPayment(context.Background(), &provider.RefundRequest{
		PaymentID: "pay_9",
		Amount:    49900,
	})

	require.NoError(t, err)
	assert.Equal(t, "rfnd_1", resp.RefundID)
	assert.Equal(t, "processed", resp.Status)
}

func TestRefundPaymentAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The payment has been fully refunded already"}}`))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).RefundPayment(context.Background(), &provider.RefundRequest{PaymentID: "pay_9"})

	var providerErr *provider.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, "BAD_REQUEST_ERROR", providerErr.Code)
}

func TestHandleWebhook(t *testing.T) {
	p := newTestProvider("")
	payload := []byte(`{"event":"payment.captured","created_at":1700000000,"payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","amount":49900,"method":"card","notes":{"orderId":"8d0c6d2e-1f55-4f0b-9d7c-3f1e2a4b5c6d"}}}}}`)

	t.Run("verified event is normalized", func(t *testing.T) {
		event, err := p.HandleWebhook(context.Background(), payload, Sign(string(payload), testWebhookSecret))

		require.NoError(t, err)
		assert.Equal(t, provider.EventPaymentCaptured, event.EventType)
		assert.Equal(t, "pay_1", event.PaymentID)
		assert.Equal(t, "order_1", event.GatewayOrderID)
		assert.Equal(t, "8d0c6d2e-1f55-4f0b-9d7c-3f1e2a4b5c6d", event.OrderID)
		assert.Equal(t, int64(49900), event.Amount)
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		sig := Sign(string(payload), testWebhookSecret)
		tampered := append([]byte{}, payload...)
		tampered[len(tampered)-3] = ' '

		_, err := p.HandleWebhook(context.Background(), tampered, sig)
		assert.ErrorIs(t, err, provider.ErrSignatureMismatch)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		_, err := p.HandleWebhook(context.Background(), payload, "")
		assert.ErrorIs(t, err, provider.ErrSignatureMismatch)
	})

	t.Run("no webhook secret rejects even a matching empty-key signature", func(t *testing.T) {
		unconfigured := NewRazorpayProvider("", "rzp_test_key", testKeySecret, "", zap.NewNop())

		event, err := unconfigured.HandleWebhook(context.Background(), payload, Sign(string(payload), ""))
		assert.ErrorIs(t, err, provider.ErrSignatureMismatch)
		assert.Nil(t, event)
	})

	t.Run("unsupported event has empty type", func(t *testing.T) {
		other := []byte(`{"event":"payment.authorized","payload":{}}`)
		event, err := p.HandleWebhook(context.Background(), other, Sign(string(other), testWebhookSecret))

		require.NoError(t, err)
		assert.Empty(t, event.EventType)
		assert.Equal(t, "payment.authorized", event.RawType)
	})
}
