package errors

import (
	"fmt"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

// InvalidTransitionError is returned when an order status change is not in the transition table.
type InvalidTransitionError struct {
	From entity.OrderStatus
	To   entity.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Cannot transition order from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Code() string { return apperrors.ErrInvalidArgument }

func (e *InvalidTransitionError) Unwrap() error { return nil }

func NewInvalidTransitionError(from, to entity.OrderStatus) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

var (
	ErrOrderNotFound        = apperrors.NotFound("Order not found")
	ErrOrderAccessDenied    = apperrors.Forbidden("Access denied")
	ErrOrderNotCancellable  = apperrors.InvalidArgument("Order cannot be cancelled at this stage")
	ErrInvalidCancelReason  = apperrors.InvalidArgument("Invalid cancellation reason")
	ErrCancelCommentsNeeded = apperrors.InvalidArgument("Comments are required when the reason is other")
	ErrShipmentDetails      = apperrors.InvalidArgument("Tracking number and shipping partner are required")
	ErrInvalidOrderStatus   = apperrors.InvalidArgument("Invalid order status")
	ErrOrderAlreadyPaid     = apperrors.InvalidArgument("Order is already paid")

	ErrInvalidSignature      = apperrors.InvalidArgument("Invalid payment signature")
	ErrTransactionNotFound   = apperrors.NotFound("Payment transaction not found")
	ErrRefundFailed          = apperrors.Internal("Refund request failed", nil)
	ErrUnsupportedWebhook    = apperrors.InvalidArgument("Unsupported webhook event")
	ErrWebhookMissingOrderID = apperrors.InvalidArgument("Webhook payload has no order reference")
)
