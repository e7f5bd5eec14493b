package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// RazorpayProvider talks to the Razorpay REST API with basic auth.
type RazorpayProvider struct {
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
	client        *http.Client
	logger        *zap.Logger
}

func NewRazorpayProvider(baseURL, keyID, keySecret, webhookSecret string, logger *zap.Logger) *RazorpayProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &RazorpayProvider{
		baseURL:       strings.TrimRight(baseURL, "/"),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 15 * time.Second},
		logger:        logger,
	}
}

func (p *RazorpayProvider) GetProviderName() string {
	return string(provider.ProviderTypeRazorpay)
}

func (p *RazorpayProvider) PublicKey() string {
	return p.keyID
}

type orderResponse struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// InitializePayment creates a Razorpay order.
// POST /v1/orders
func (p *RazorpayProvider) InitializePayment(ctx context.Context, req *provider.InitializePaymentRequest) (*provider.InitializePaymentResponse, error) {
	body := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    req.Notes,
	}

	var order orderResponse
	raw, err := p.do(ctx, http.MethodPost, "/orders", body, &order)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Razorpay order created",
		zap.String("gateway_order_id", order.ID),
		zap.String("receipt", order.Receipt),
		zap.Int64("amount", order.Amount))

	var data map[string]interface{}
	_ = json.Unmarshal(raw, &data)

	return &provider.InitializePaymentResponse{
		GatewayOrderID: order.ID,
		Status:         order.Status,
		Amount:         order.Amount,
		Currency:       order.Currency,
		ProviderData:   data,
	}, nil
}

type paymentResponse struct {
	ID       string            `json:"id"`
	OrderID  string            `json:"order_id"`
	Amount   int64             `json:"amount"`
	Status   string            `json:"status"`
	Method   string            `json:"method"`
	Captured bool              `json:"captured"`
	Notes    map[string]string `json:"notes"`
	Created  int64             `json:"created_at"`
}

// ConfirmPayment checks the checkout signature HMAC-SHA256(order_id|payment_id) with the key
// secret, then fetches the payment for its method.
func (p *RazorpayProvider) ConfirmPayment(ctx context.Context, req *provider.ConfirmPaymentRequest) (*provider.ConfirmPaymentResponse, error) {
	if !VerifySignature(req.GatewayOrderID+"|"+req.PaymentID, req.Signature, p.keySecret) {
		p.logger.Warn("Razorpay payment signature mismatch",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("payment_id", req.PaymentID))
		return nil, provider.ErrSignatureMismatch
	}

	now := time.Now()
	resp := &provider.ConfirmPaymentResponse{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Status:         provider.PaymentStatusCompleted,
		PaidAt:         &now,
	}

	var payment paymentResponse
	raw, err := p.do(ctx, http.MethodGet, "/payments/"+req.PaymentID, nil, &payment)
	if err != nil {
		// The signature already proves the payment; the lookup only enriches the record.
		p.logger.Warn("Failed to fetch Razorpay payment details", zap.String("payment_id", req.PaymentID), zap.Error(err))
		return resp, nil
	}

	resp.PaymentMethod = payment.Method
	var data map[string]interface{}
	if json.Unmarshal(raw, &data) == nil {
		resp.ProviderData = data
	}
	return resp, nil
}

type refundResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// RefundPayment refunds a captured payment.
// POST /v1/payments/{id}/refund
func (p *RazorpayProvider) RefundPayment(ctx context.Context, req *provider.RefundRequest) (*provider.RefundResponse, error) {
	body := map[string]interface{}{"notes": req.Notes}
	if req.Amount > 0 {
		body["amount"] = req.Amount
	}

	var refund refundResponse
	if _, err := p.do(ctx, http.MethodPost, "/payments/"+req.PaymentID+"/refund", body, &refund); err != nil {
		return nil, err
	}

	p.logger.Info("Razorpay refund created",
		zap.String("payment_id", req.PaymentID),
		zap.String("refund_id", refund.ID),
		zap.String("status", refund.Status))

	return &provider.RefundResponse{RefundID: refund.ID, Status: refund.Status, Amount: refund.Amount}, nil
}

func (p *RazorpayProvider) do(ctx context.Context, method, path string, body interface{}, out interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, &provider.ProviderError{Code: "MARSHAL_ERROR", Message: "Failed to prepare request", Details: err.Error()}
		}
		reader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, &provider.ProviderError{Code: "REQUEST_ERROR", Message: "Failed to create request", Details: err.Error()}
	}
	httpReq.SetBasicAuth(p.keyID, p.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Error("Razorpay request failed", zap.String("path", path), zap.Error(err))
		return nil, &provider.ProviderError{Code: "API_ERROR", Message: "Razorpay API request failed", Details: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{Code: "RESPONSE_ERROR", Message: "Failed to read response", Details: err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		p.logger.Error("Razorpay returned an error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", errResp.Error.Code))
		return nil, &provider.ProviderError{
			Code:    errResp.Error.Code,
			Message: errResp.Error.Description,
			Details: fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return nil, &provider.ProviderError{Code: "PARSE_ERROR", Message: "Failed to parse response", Details: err.Error()}
		}
	}
	return respBody, nil
}

// VerifySignature compares a hex HMAC-SHA256 of payload in constant time.
func VerifySignature(payload, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign returns the hex HMAC-SHA256 of payload.
func Sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
