package usecase

import (
	"context"
	"fmt"
	"strings"
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

// Order types accepted by CreateOrder.
const (
	OrderTypeCart   = "cart"
	OrderTypeDirect = "direct"
)

// PaymentGateways resolves payment providers by name.
type PaymentGateways interface {
	Default() (provider.PaymentProvider, error)
	GetProviderFromString(name string) (provider.PaymentProvider, error)
}

// OrderUseCase owns the order lifecycle. Every status change goes through Transition.
type OrderUseCase struct {
	logger        *zap.Logger
	orders        repository.OrderRepository
	carts         repository.CartRepository
	users         repository.UserRepository
	payments      repository.PaymentRepository
	gateways      PaymentGateways
	inventory     *InventoryUseCase
	notifications *NotificationUseCase
	activity      *ActivityUseCase
	pricing       entity.Pricing
	now           func() time.Time
}

func NewOrderUseCase(
	logger *zap.Logger,
	orders repository.OrderRepository,
	carts repository.CartRepository,
	users repository.UserRepository,
	payments repository.PaymentRepository,
	gateways PaymentGateways,
	inventory *InventoryUseCase,
	notifications *NotificationUseCase,
	activity *ActivityUseCase,
	pricing entity.Pricing,
) *OrderUseCase {
	return &OrderUseCase{
		logger:        logger,
		orders:        orders,
		carts:         carts,
		users:         users,
		payments:      payments,
		gateways:      gateways,
		inventory:     inventory,
		notifications: notifications,
		activity:      activity,
		pricing:       pricing,
		now:           time.Now,
	}
}

// CreateOrderParams is a checkout request. Direct orders name one product; cart orders
// take every line of the user's cart and clear it on success.
type CreateOrderParams struct {
	UserID          uuid.UUID
	Type            string
	ProductID       uuid.UUID
	Quantity        int
	ShippingAddress model.Address
	PaymentMethod   string
	Notes           string
}

func (uc *OrderUseCase) CreateOrder(ctx context.Context, params CreateOrderParams) (*model.Order, error) {
	var lines []repository.OrderLine
	switch params.Type {
	case OrderTypeCart:
		cart, err := uc.carts.GetByUserID(ctx, params.UserID)
		if err != nil {
			return nil, err
		}
		if cart == nil || len(cart.Items) == 0 {
			return nil, domainErrors.ErrEmptyCart
		}
		for _, item := range cart.Items {
			lines = append(lines, repository.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	case OrderTypeDirect:
		if params.ProductID == uuid.Nil {
			return nil, apperrors.Validation(map[string]string{"productId": "Product is required"})
		}
		if params.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		lines = []repository.OrderLine{{ProductID: params.ProductID, Quantity: params.Quantity}}
	default:
		return nil, apperrors.Validation(map[string]string{"type": "Type must be cart or direct"})
	}

	now := uc.now()
	tracking, err := GenerateTrackingNumber(now)
	if err != nil {
		return nil, err
	}

	order, err := uc.orders.Create(ctx, repository.CreateOrderParams{
		UserID:          params.UserID,
		OrderType:       params.Type,
		Lines:           lines,
		Pricing:         uc.pricing,
		ShippingAddress: params.ShippingAddress,
		PaymentMethod:   params.PaymentMethod,
		Notes:           params.Notes,
		OrderNumber:     GenerateOrderNumber(now),
		TrackingNumber:  tracking,
		ClearCart:       params.Type == OrderTypeCart,
	})
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		uc.inventory.CheckAndNotifyLowStock(ctx, item.ProductID)
	}
	return order, nil
}

// UpdateStatusParams is an admin status change.
type UpdateStatusParams struct {
	Status          string
	TrackingNumber  string
	ShippingPartner string
	Notes           string
}

func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, actorID, orderID uuid.UUID, params UpdateStatusParams) (*model.Order, error) {
	status, ok := entity.ParseOrderStatus(params.Status)
	if !ok {
		return nil, domainErrors.ErrInvalidOrderStatus
	}
	if status.RequiresShipment() && (strings.TrimSpace(params.TrackingNumber) == "" || strings.TrimSpace(params.ShippingPartner) == "") {
		return nil, domainErrors.ErrShipmentDetails
	}

	order, changed, err := uc.Transition(ctx, repository.StatusChange{
		OrderID:         orderID,
		To:              status,
		Notes:           params.Notes,
		TrackingNumber:  strings.TrimSpace(params.TrackingNumber),
		ShippingPartner: strings.TrimSpace(params.ShippingPartner),
		UpdatedBy:       &actorID,
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.activity.Record(ctx, ActivityEntry{
			UserID:     &actorID,
			ActionType: entity.ActivityOrderStatus,
			EntityType: "order",
			EntityID:   orderID.String(),
			Details:    map[string]interface{}{"status": status, "notes": params.Notes},
		})
	}
	return order, nil
}

// Transition applies a validated status change and notifies the customer when the status
// actually moved. A repeat of the current status is a no-op.
func (uc *OrderUseCase) Transition(ctx context.Context, change repository.StatusChange) (*model.Order, bool, error) {
	if change.At.IsZero() {
		change.At = uc.now()
	}
	order, changed, err := uc.orders.Transition(ctx, change)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return order, false, nil
	}

	switch change.To {
	case entity.OrderStatusConfirmed:
		uc.notifyOrder(ctx, order, entity.NotifyOrderConfirmation, fmt.Sprintf("Order Confirmed - #%s", order.OrderNumber), nil)
	case entity.OrderStatusCancelled:
		// CancelOrder sends its own notice with the reason.
	default:
		uc.notifyOrder(ctx, order, entity.NotifyOrderStatus, fmt.Sprintf("Order Update - #%s", order.OrderNumber), map[string]interface{}{
			"notes": change.Notes,
		})
	}
	return order, true, nil
}

// CancelOrder refunds a paid order before cancelling it and returns every item to stock.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, reason entity.CancellationReason, comments string) (*model.Order, error) {
	if !reason.Valid() {
		return nil, domainErrors.ErrInvalidCancelReason
	}
	comments = strings.TrimSpace(comments)
	if reason == entity.ReasonOther && comments == "" {
		return nil, domainErrors.ErrCancelCommentsNeeded
	}

	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrOrderAccessDenied
	}
	if !order.Status.Cancellable() {
		return nil, domainErrors.ErrOrderNotCancellable
	}

	refunded := false
	if order.PaymentStatus == entity.PaymentStatusCompleted && order.PaymentID != nil {
		if err := uc.refund(ctx, order, string(reason)); err != nil {
			return nil, err
		}
		refunded = true
	}

	notes := "Cancelled: " + string(reason)
	if comments != "" {
		notes += " - " + comments
	}
	change := repository.StatusChange{
		OrderID:              orderID,
		To:                   entity.OrderStatusCancelled,
		Notes:                notes,
		CancellationReason:   string(reason),
		CancellationComments: comments,
		UpdatedBy:            &userID,
		RestoreStock:         true,
		OwnerID:              &userID,
		AllowedFrom:          []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusConfirmed, entity.OrderStatusProcessing},
	}
	if refunded {
		change.PaymentStatus = entity.PaymentStatusRefunded
	}

	updated, changed, err := uc.Transition(ctx, change)
	if err != nil {
		var transitionErr *domainErrors.InvalidTransitionError
		if apperrors.As(err, &transitionErr) {
			return nil, domainErrors.ErrOrderNotCancellable
		}
		return nil, err
	}

	if changed {
		uc.notifyOrder(ctx, updated, entity.NotifyOrderCancellation, fmt.Sprintf("Order Cancelled - #%s", updated.OrderNumber), map[string]interface{}{
			"reason":   string(reason),
			"refunded": refunded,
		})
		uc.activity.Record(ctx, ActivityEntry{
			UserID:     &userID,
			ActionType: entity.ActivityOrderCancel,
			EntityType: "order",
			EntityID:   orderID.String(),
			Details:    map[string]interface{}{"reason": reason, "comments": comments, "refunded": refunded},
		})
	}
	return updated, nil
}

// refund asks the gateway that captured the payment for a full refund.
func (uc *OrderUseCase) refund(ctx context.Context, order *model.Order, reason string) error {
	gatewayName := ""
	var captured *model.PaymentTransaction
	txs, err := uc.payments.ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if tx.Status == entity.PaymentStatusCompleted {
			captured = tx
			gatewayName = tx.PaymentGateway
			break
		}
	}

	gateway, err := uc.gateways.GetProviderFromString(gatewayName)
	if err != nil {
		return apperrors.Internal("Payment gateway unavailable", err)
	}

	resp, err := gateway.RefundPayment(ctx, &provider.RefundRequest{
		PaymentID: *order.PaymentID,
		Amount:    entity.MinorUnits(order.TotalAmount),
		Notes:     map[string]string{"reason": reason, "orderId": order.ID.String()},
	})
	if err != nil {
		uc.logger.Error("Refund request failed",
			zap.String("order_id", order.ID.String()),
			zap.String("gateway", gateway.GetProviderName()),
			zap.Error(err))
		return apperrors.NewAppError(apperrors.ErrInternal, domainErrors.ErrRefundFailed.Message(), err)
	}

	if captured != nil {
		if err := uc.payments.MarkRefunded(ctx, captured.TransactionID, rawJSON(resp)); err != nil {
			uc.logger.Warn("Failed to mark transaction refunded", zap.String("transaction_id", captured.TransactionID), zap.Error(err))
		}
	}

	uc.logger.Info("Refund requested",
		zap.String("order_id", order.ID.String()),
		zap.String("refund_id", resp.RefundID))
	return nil
}

func (uc *OrderUseCase) notifyOrder(ctx context.Context, order *model.Order, kind entity.NotificationKind, subject string, extra map[string]interface{}) {
	user, err := uc.users.GetByID(ctx, order.UserID)
	if err != nil {
		uc.logger.Warn("Failed to load order owner for notification", zap.String("order_id", order.ID.String()), zap.Error(err))
		return
	}

	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]interface{}{
			"name":     item.ProductName,
			"quantity": item.Quantity,
			"subtotal": item.Subtotal.StringFixed(2),
		})
	}

	data := map[string]interface{}{
		"orderId":        order.ID.String(),
		"orderNumber":    order.OrderNumber,
		"status":         order.Status,
		"total":          order.TotalAmount.StringFixed(2),
		"trackingNumber": order.TrackingNumber,
		"items":          items,
	}
	if order.ShippingPartner != nil {
		data["shippingPartner"] = *order.ShippingPartner
	}
	for k, v := range extra {
		data[k] = v
	}

	uc.notifications.Send(ctx, Notification{Kind: kind, To: []string{user.Email}, Subject: subject, Data: data})
}

// GetUserOrder returns the order with its history; other users' orders are forbidden.
func (uc *OrderUseCase) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := uc.orders.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrOrderAccessDenied
	}
	return order, nil
}

func (uc *OrderUseCase) ListUserOrders(ctx context.Context, userID uuid.UUID, page entity.PaginationParams) ([]*model.Order, entity.PaginationMeta, error) {
	return uc.ListOrders(ctx, repository.OrderFilter{PaginationParams: page, UserID: &userID})
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, entity.PaginationMeta, error) {
	filter.Validate()
	orders, total, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return orders, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return uc.orders.GetDetail(ctx, orderID)
}

func (uc *OrderUseCase) History(ctx context.Context, orderID uuid.UUID) ([]*model.OrderStatusHistory, error) {
	if _, err := uc.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.orders.History(ctx, orderID)
}
