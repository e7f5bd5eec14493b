package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	usecase *usecase.PaymentUseCase
	logger  *zap.Logger
}

func NewPaymentHandler(usecase *usecase.PaymentUseCase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type initiatePaymentRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
}

type verifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature        string `json:"razorpay_signature" validate:"required"`
}

// Initiate handles POST /api/payments/initiate
func (h *PaymentHandler) Initiate(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req initiatePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	orderID, err := optionalUUID(req.OrderID, "orderId")
	if err != nil {
		return err
	}

	init, err := h.usecase.InitiatePayment(c.Request().Context(), claims.UserID, *orderID)
	if err != nil {
		return err
	}

	h.logger.Info("Payment initiated",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", claims.UserID.String()),
		zap.String("provider", init.Provider),
		zap.String("gateway_order_id", init.GatewayOrderID))

	return respond(c, http.StatusOK, init)
}

// Verify handles POST /api/payments/verify
func (h *PaymentHandler) Verify(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req verifyPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.usecase.VerifyPayment(c.Request().Context(), claims.UserID, usecase.VerifyPaymentParams{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: "Payment verified successfully", Data: order})
}
