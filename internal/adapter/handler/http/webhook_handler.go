package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider/razorpay"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider/stripe"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// WebhookHandler receives gateway callbacks. The raw body is needed for
// signature verification, so nothing is bound before reading it.
type WebhookHandler struct {
	usecase *usecase.PaymentUseCase
	logger  *zap.Logger
}

func NewWebhookHandler(usecase *usecase.PaymentUseCase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// Razorpay handles POST /api/webhooks/razorpay
func (h *WebhookHandler) Razorpay(c echo.Context) error {
	return h.handle(c, string(provider.ProviderTypeRazorpay), razorpay.SignatureHeader)
}

// Stripe handles POST /api/webhooks/stripe
func (h *WebhookHandler) Stripe(c echo.Context) error {
	return h.handle(c, string(provider.ProviderTypeStripe), stripe.SignatureHeader)
}

func (h *WebhookHandler) handle(c echo.Context, gateway, signatureHeader string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.String("gateway", gateway), zap.Error(err))
		return apperrors.InvalidArgument("Failed to read request body")
	}

	signature := c.Request().Header.Get(signatureHeader)
	if signature == "" {
		h.logger.Warn("Webhook without signature", zap.String("gateway", gateway))
		return apperrors.InvalidArgument("Missing webhook signature")
	}

	if err := h.usecase.HandleWebhook(c.Request().Context(), gateway, body, signature); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
