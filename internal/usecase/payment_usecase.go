package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// PaymentInit is what the storefront needs to open the gateway checkout.
type PaymentInit struct {
	Provider       string `json:"provider"`
	Key            string `json:"key"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	GatewayOrderID string `json:"gatewayOrderId"`
	ClientSecret   string `json:"clientSecret,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

// PaymentOptions configures the Razorpay checkout widget.
type PaymentOptions struct {
	Key         string            `json:"key"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OrderID     string            `json:"order_id,omitempty"`
	Prefill     map[string]string `json:"prefill"`
}

type PaymentUseCase struct {
	logger       *zap.Logger
	orders       repository.OrderRepository
	payments     repository.PaymentRepository
	users        repository.UserRepository
	profiles     repository.ProfileRepository
	gateways     PaymentGateways
	orderUC      *OrderUseCase
	currency     string
	merchantName string
	now          func() time.Time
}

func NewPaymentUseCase(
	logger *zap.Logger,
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	gateways PaymentGateways,
	orderUC *OrderUseCase,
	currency string,
	merchantName string,
) *PaymentUseCase {
	return &PaymentUseCase{
		logger:       logger,
		orders:       orders,
		payments:     payments,
		users:        users,
		profiles:     profiles,
		gateways:     gateways,
		orderUC:      orderUC,
		currency:     currency,
		merchantName: merchantName,
		now:          time.Now,
	}
}

func (uc *PaymentUseCase) ownedOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrOrderAccessDenied
	}
	return order, nil
}

// InitiatePayment creates a gateway order for the order total and records a pending transaction.
func (uc *PaymentUseCase) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentInit, error) {
	order, err := uc.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == entity.PaymentStatusCompleted {
		return nil, domainErrors.ErrOrderAlreadyPaid
	}
	if order.Status != entity.OrderStatusPending && order.Status != entity.OrderStatusPaymentFailed {
		return nil, domainErrors.NewInvalidTransitionError(order.Status, entity.OrderStatusConfirmed)
	}

	gateway, err := uc.gateways.Default()
	if err != nil {
		return nil, apperrors.Internal("Payment gateway unavailable", err)
	}

	amount := entity.MinorUnits(order.TotalAmount)
	resp, err := gateway.InitializePayment(ctx, &provider.InitializePaymentRequest{
		Amount:   amount,
		Currency: uc.currency,
		Receipt:  order.ID.String(),
		Notes:    map[string]string{"orderId": order.ID.String()},
	})
	if err != nil {
		uc.logger.Error("Payment initiation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("gateway", gateway.GetProviderName()),
			zap.Error(err))
		return nil, apperrors.Internal("Payment initiation failed", err)
	}

	tx := &model.PaymentTransaction{
		OrderID:         order.ID,
		TransactionID:   resp.GatewayOrderID,
		PaymentGateway:  gateway.GetProviderName(),
		Amount:          order.TotalAmount,
		Currency:        uc.currency,
		Status:          entity.PaymentStatusPending,
		GatewayResponse: rawJSON(resp),
	}
	if err := uc.payments.Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := uc.orders.SetGatewayOrderID(ctx, order.ID, resp.GatewayOrderID); err != nil {
		return nil, err
	}

	uc.logger.Info("Payment initiated",
		zap.String("order_id", order.ID.String()),
		zap.String("gateway_order_id", resp.GatewayOrderID),
		zap.Int64("amount", amount))

	return &PaymentInit{
		Provider:       gateway.GetProviderName(),
		Key:            gateway.PublicKey(),
		Amount:         amount,
		Currency:       uc.currency,
		GatewayOrderID: resp.GatewayOrderID,
		ClientSecret:   resp.ClientSecret,
		Name:           uc.merchantName,
		Description:    fmt.Sprintf("Order #%s", order.OrderNumber),
	}, nil
}

// VerifyPaymentParams is the signed client callback after checkout.
type VerifyPaymentParams struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// VerifyPayment checks the callback signature. A mismatch marks the transaction failed and
// leaves the order untouched; a match confirms the order.
func (uc *PaymentUseCase) VerifyPayment(ctx context.Context, userID uuid.UUID, params VerifyPaymentParams) (*model.Order, error) {
	tx, err := uc.payments.GetByTransactionID(ctx, params.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedOrder(ctx, userID, tx.OrderID); err != nil {
		return nil, err
	}

	gateway, err := uc.gateways.GetProviderFromString(tx.PaymentGateway)
	if err != nil {
		return nil, apperrors.Internal("Payment gateway unavailable", err)
	}

	resp, err := gateway.ConfirmPayment(ctx, &provider.ConfirmPaymentRequest{
		GatewayOrderID: params.GatewayOrderID,
		PaymentID:      params.GatewayPaymentID,
		Signature:      params.Signature,
	})
	if err != nil {
		if errors.Is(err, provider.ErrSignatureMismatch) {
			if tx.Status == entity.PaymentStatusPending {
				if markErr := uc.payments.MarkFailed(ctx, params.GatewayOrderID, rawJSON(map[string]string{
					"paymentId":     params.GatewayPaymentID,
					"failureReason": "Signature verification failed",
				})); markErr != nil {
					uc.logger.Warn("Failed to mark transaction failed", zap.String("transaction_id", params.GatewayOrderID), zap.Error(markErr))
				}
			}
			uc.logger.Warn("Payment signature mismatch",
				zap.String("order_id", tx.OrderID.String()),
				zap.String("gateway_order_id", params.GatewayOrderID))
			return nil, domainErrors.ErrInvalidSignature
		}
		return nil, apperrors.Internal("Payment verification failed", err)
	}

	if resp.Status != provider.PaymentStatusCompleted {
		return nil, apperrors.InvalidArgument("Payment has not been completed")
	}

	paidAt := uc.now()
	if resp.PaidAt != nil {
		paidAt = *resp.PaidAt
	}
	method := resp.PaymentMethod
	if method == "" {
		method = gateway.GetProviderName()
	}
	if err := uc.payments.MarkCompleted(ctx, params.GatewayOrderID, resp.PaymentID, method, paidAt, rawJSON(resp)); err != nil {
		return nil, err
	}

	order, _, err := uc.orderUC.Transition(ctx, repository.StatusChange{
		OrderID:       tx.OrderID,
		To:            entity.OrderStatusConfirmed,
		Notes:         "Payment successful",
		PaymentStatus: entity.PaymentStatusCompleted,
		PaymentID:     resp.PaymentID,
		UpdatedBy:     &userID,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Payment verified",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", resp.PaymentID))
	return order, nil
}

// ConfirmOrderPayment verifies a callback addressed by the internal order id.
func (uc *PaymentUseCase) ConfirmOrderPayment(ctx context.Context, userID, orderID uuid.UUID, paymentID, signature string) (*model.Order, error) {
	order, err := uc.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.GatewayOrderID == nil || *order.GatewayOrderID == "" {
		return nil, apperrors.InvalidArgument("Payment has not been initiated for this order")
	}
	return uc.VerifyPayment(ctx, userID, VerifyPaymentParams{
		GatewayOrderID:   *order.GatewayOrderID,
		GatewayPaymentID: paymentID,
		Signature:        signature,
	})
}

func (uc *PaymentUseCase) PaymentOptions(ctx context.Context, userID, orderID uuid.UUID) (*PaymentOptions, error) {
	order, err := uc.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	gateway, err := uc.gateways.Default()
	if err != nil {
		return nil, apperrors.Internal("Payment gateway unavailable", err)
	}

	opts := &PaymentOptions{
		Key:         gateway.PublicKey(),
		Amount:      entity.MinorUnits(order.TotalAmount),
		Currency:    uc.currency,
		Name:        uc.merchantName,
		Description: fmt.Sprintf("Order #%s", order.OrderNumber),
		Prefill:     map[string]string{},
	}
	if order.GatewayOrderID != nil {
		opts.OrderID = *order.GatewayOrderID
	}

	if user, err := uc.users.GetByID(ctx, userID); err == nil {
		opts.Prefill["email"] = user.Email
	}
	if profile, err := uc.profiles.GetByUserID(ctx, userID); err == nil && profile != nil {
		opts.Prefill["name"] = profile.FullName()
		if profile.MobileNumber != nil {
			opts.Prefill["contact"] = *profile.MobileNumber
		}
	}
	return opts, nil
}

// HandleWebhook verifies and applies a gateway event. A bad signature changes nothing.
// Events that are not handled, or that no longer apply to the order's status, are acknowledged.
func (uc *PaymentUseCase) HandleWebhook(ctx context.Context, gatewayName string, payload []byte, signature string) error {
	gateway, err := uc.gateways.GetProviderFromString(gatewayName)
	if err != nil {
		return apperrors.NotFound("Unknown payment gateway")
	}

	event, err := gateway.HandleWebhook(ctx, payload, signature)
	if err != nil {
		if errors.Is(err, provider.ErrSignatureMismatch) {
			return apperrors.InvalidArgument("Invalid webhook signature")
		}
		return apperrors.InvalidArgument("Invalid webhook payload")
	}
	if event.EventType == "" {
		uc.logger.Info("Unhandled webhook event", zap.String("gateway", gatewayName), zap.String("event", event.RawType))
		return nil
	}

	orderID, err := uc.resolveOrder(ctx, event)
	if err != nil {
		return err
	}

	change := repository.StatusChange{OrderID: orderID, PaymentID: event.PaymentID}
	switch event.EventType {
	case provider.EventPaymentCaptured:
		change.To = entity.OrderStatusConfirmed
		change.PaymentStatus = entity.PaymentStatusCompleted
		change.Notes = "Payment successful"
	case provider.EventOrderPaid:
		change.To = entity.OrderStatusConfirmed
		change.PaymentStatus = entity.PaymentStatusCompleted
		change.Notes = "Order payment confirmed via webhook"
	case provider.EventPaymentFailed:
		change.To = entity.OrderStatusPaymentFailed
		change.PaymentStatus = entity.PaymentStatusFailed
		change.Notes = "Payment failed"
	case provider.EventRefundProcessed:
		change.To = entity.OrderStatusRefunded
		change.PaymentStatus = entity.PaymentStatusRefunded
		change.Notes = "Refund processed successfully"
		change.PaymentID = ""
	default:
		return domainErrors.ErrUnsupportedWebhook
	}

	_, changed, err := uc.orderUC.Transition(ctx, change)
	if err != nil {
		var transitionErr *domainErrors.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			uc.logger.Warn("Webhook event does not apply to order status",
				zap.String("order_id", orderID.String()),
				zap.String("event", event.RawType),
				zap.String("from", string(transitionErr.From)))
			return nil
		}
		return err
	}

	// The transaction follows the order only once the order accepted the event.
	uc.markTransaction(ctx, event, change.PaymentStatus, payload)

	uc.logger.Info("Webhook processed",
		zap.String("gateway", gatewayName),
		zap.String("event", event.RawType),
		zap.String("order_id", orderID.String()),
		zap.Bool("changed", changed))
	return nil
}

// resolveOrder prefers the orderId note and falls back to the gateway order id.
func (uc *PaymentUseCase) resolveOrder(ctx context.Context, event *provider.WebhookEvent) (uuid.UUID, error) {
	if event.OrderID != "" {
		if id, err := uuid.Parse(event.OrderID); err == nil {
			return id, nil
		}
	}
	if event.GatewayOrderID != "" {
		order, err := uc.orders.GetByGatewayOrderID(ctx, event.GatewayOrderID)
		if err != nil {
			return uuid.Nil, err
		}
		return order.ID, nil
	}
	return uuid.Nil, domainErrors.ErrWebhookMissingOrderID
}

func (uc *PaymentUseCase) markTransaction(ctx context.Context, event *provider.WebhookEvent, status entity.PaymentStatus, payload []byte) {
	if event.GatewayOrderID == "" {
		return
	}
	var err error
	switch status {
	case entity.PaymentStatusCompleted:
		method := event.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		err = uc.payments.MarkCompleted(ctx, event.GatewayOrderID, event.PaymentID, method, uc.now(), payload)
	case entity.PaymentStatusFailed:
		err = uc.payments.MarkFailed(ctx, event.GatewayOrderID, payload)
	}
	if err != nil && !errors.Is(err, domainErrors.ErrTransactionNotFound) {
		uc.logger.Warn("Failed to update payment transaction from webhook",
			zap.String("gateway_order_id", event.GatewayOrderID),
			zap.Error(err))
	}
}
