package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
)

type orderFixture struct {
	orders   *MockOrderRepository
	carts    *MockCartRepository
	users    *MockUserRepository
	payments *MockPaymentRepository
	gateways *MockGateways
	outbox   *MockNotificationRepository
	activity *MockActivityLogRepository
	uc       *usecase.OrderUseCase
}

func newOrderFixture() *orderFixture {
	logger := zap.NewNop()
	f := &orderFixture{
		orders:   new(MockOrderRepository),
		carts:    new(MockCartRepository),
		users:    new(MockUserRepository),
		payments: new(MockPaymentRepository),
		gateways: new(MockGateways),
		outbox:   new(MockNotificationRepository),
		activity: new(MockActivityLogRepository),
	}
	f.uc = usecase.NewOrderUseCase(
		logger,
		f.orders,
		f.carts,
		f.users,
		f.payments,
		f.gateways,
		nil,
		usecase.NewNotificationUseCase(f.outbox, nil, "", logger),
		usecase.NewActivityUseCase(f.activity, logger),
		entity.Pricing{},
	)
	return f
}

// expectSideEffects allows the customer notice and the audit row.
func (f *orderFixture) expectSideEffects(userID uuid.UUID) {
	f.users.On("GetByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "fern@example.com"}, nil).Maybe()
	f.outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.activity.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func TestOrderUseCase_CancelOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("invalid reason", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.CancellationReason("meh"), "")
		assert.ErrorIs(t, err, domainErrors.ErrInvalidCancelReason)
	})

	t.Run("other requires comments", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonOther, "   ")
		assert.ErrorIs(t, err, domainErrors.ErrCancelCommentsNeeded)
	})

	t.Run("someone else's order", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("GetByID", ctx, orderID).Return(&model.Order{ID: orderID, UserID: uuid.New(), Status: entity.OrderStatusPending}, nil)

		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonChangedMind, "")
		assert.ErrorIs(t, err, domainErrors.ErrOrderAccessDenied)
	})

	t.Run("shipped order cannot be cancelled", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("GetByID", ctx, orderID).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusShipped}, nil)

		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonChangedMind, "")
		assert.ErrorIs(t, err, domainErrors.ErrOrderNotCancellable)
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	})

	t.Run("unpaid order is cancelled and restocked", func(t *testing.T) {
		f := newOrderFixture()
		f.expectSideEffects(userID)
		order := &model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusPending, PaymentStatus: entity.PaymentStatusPending}
		f.orders.On("GetByID", ctx, orderID).Return(order, nil)
		f.orders.On("Transition", ctx, mock.MatchedBy(func(c repository.StatusChange) bool {
			return c.To == entity.OrderStatusCancelled &&
				c.RestoreStock &&
				c.OwnerID != nil && *c.OwnerID == userID &&
				c.CancellationReason == string(entity.ReasonWrongItemOrdered) &&
				c.PaymentStatus == ""
		})).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusCancelled}, true, nil)

		updated, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonWrongItemOrdered, "")

		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusCancelled, updated.Status)
		f.orders.AssertExpectations(t)
		f.gateways.AssertNotCalled(t, "GetProviderFromString", mock.Anything)
	})

	t.Run("paid order is refunded through the capturing gateway", func(t *testing.T) {
		f := newOrderFixture()
		f.expectSideEffects(userID)
		paymentID := "pay_123"
		order := &model.Order{
			ID:            orderID,
			UserID:        userID,
			Status:        entity.OrderStatusConfirmed,
			PaymentStatus: entity.PaymentStatusCompleted,
			PaymentID:     &paymentID,
			TotalAmount:   decimal.RequireFromString("499.00"),
		}
		gateway := new(MockPaymentProvider)

		f.orders.On("GetByID", ctx, orderID).Return(order, nil)
		f.payments.On("ListByOrder", ctx, orderID).Return([]*model.PaymentTransaction{
			{TransactionID: "order_old", PaymentGateway: "razorpay", Status: entity.PaymentStatusFailed},
			{TransactionID: "order_ok", PaymentGateway: "razorpay", Status: entity.PaymentStatusCompleted},
		}, nil)
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		gateway.On("RefundPayment", ctx, mock.MatchedBy(func(r *provider.RefundRequest) bool {
			return r.PaymentID == paymentID && r.Amount == 49900
		})).Return(&provider.RefundResponse{RefundID: "rfnd_1", Status: "processed"}, nil)
		f.payments.On("MarkRefunded", ctx, "order_ok", mock.Anything).Return(nil)
		f.orders.On("Transition", ctx, mock.MatchedBy(func(c repository.StatusChange) bool {
			return c.To == entity.OrderStatusCancelled && c.RestoreStock && c.PaymentStatus == entity.PaymentStatusRefunded
		})).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusCancelled}, true, nil)

		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonBetterPriceElsewhere, "")

		require.NoError(t, err)
		gateway.AssertExpectations(t)
		f.payments.AssertExpectations(t)
		f.orders.AssertExpectations(t)
	})

	t.Run("failed refund leaves the order alone", func(t *testing.T) {
		f := newOrderFixture()
		paymentID := "pay_123"
		order := &model.Order{
			ID:            orderID,
			UserID:        userID,
			Status:        entity.OrderStatusConfirmed,
			PaymentStatus: entity.PaymentStatusCompleted,
			PaymentID:     &paymentID,
			TotalAmount:   decimal.NewFromInt(100),
		}
		gateway := new(MockPaymentProvider)

		f.orders.On("GetByID", ctx, orderID).Return(order, nil)
		f.payments.On("ListByOrder", ctx, orderID).Return([]*model.PaymentTransaction{
			{TransactionID: "order_ok", PaymentGateway: "razorpay", Status: entity.PaymentStatusCompleted},
		}, nil)
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		gateway.On("RefundPayment", ctx, mock.Anything).Return(nil, errors.New("gateway down"))
		gateway.On("GetProviderName").Return("razorpay")

		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonChangedMind, "")

		assert.Error(t, err)
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	})

	t.Run("lost race maps to not cancellable", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("GetByID", ctx, orderID).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusProcessing}, nil)
		f.orders.On("Transition", ctx, mock.Anything).Return(nil, false,
			domainErrors.NewInvalidTransitionError(entity.OrderStatusPacked, entity.OrderStatusCancelled))

		_, err := f.uc.CancelOrder(ctx, userID, orderID, entity.ReasonChangedMind, "")
		assert.ErrorIs(t, err, domainErrors.ErrOrderNotCancellable)
	})
}

func TestOrderUseCase_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("unknown status", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.UpdateOrderStatus(ctx, adminID, orderID, usecase.UpdateStatusParams{Status: "lost"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidOrderStatus)
	})

	t.Run("shipping requires tracking details", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.UpdateOrderStatus(ctx, adminID, orderID, usecase.UpdateStatusParams{Status: "shipped", TrackingNumber: "AWB1"})
		assert.ErrorIs(t, err, domainErrors.ErrShipmentDetails)
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	})

	t.Run("valid change notifies the customer", func(t *testing.T) {
		f := newOrderFixture()
		f.expectSideEffects(userID)
		f.orders.On("Transition", ctx, mock.MatchedBy(func(c repository.StatusChange) bool {
			return c.To == entity.OrderStatusShipped && c.TrackingNumber == "AWB1" && c.ShippingPartner == "Delhivery" &&
				c.UpdatedBy != nil && *c.UpdatedBy == adminID && !c.At.IsZero()
		})).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusShipped}, true, nil)

		order, err := f.uc.UpdateOrderStatus(ctx, adminID, orderID, usecase.UpdateStatusParams{
			Status:          "shipped",
			TrackingNumber:  " AWB1 ",
			ShippingPartner: "Delhivery",
		})

		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusShipped, order.Status)
		f.outbox.AssertCalled(t, "Enqueue", mock.Anything, mock.MatchedBy(func(n *model.NotificationOutbox) bool {
			return n.Kind == entity.NotifyOrderStatus
		}))
	})

	t.Run("repeat of the current status sends nothing", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("Transition", ctx, mock.Anything).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusProcessing}, false, nil)

		_, err := f.uc.UpdateOrderStatus(ctx, adminID, orderID, usecase.UpdateStatusParams{Status: "processing"})

		require.NoError(t, err)
		f.outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		f.activity.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("illegal transition surfaces", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("Transition", ctx, mock.Anything).Return(nil, false,
			domainErrors.NewInvalidTransitionError(entity.OrderStatusDelivered, entity.OrderStatusPending))

		_, err := f.uc.UpdateOrderStatus(ctx, adminID, orderID, usecase.UpdateStatusParams{Status: "pending"})

		var transitionErr *domainErrors.InvalidTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})
}

func TestOrderUseCase_CreateOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture()
		f.carts.On("GetByUserID", ctx, userID).Return(&model.Cart{UserID: userID}, nil)

		_, err := f.uc.CreateOrder(ctx, usecase.CreateOrderParams{UserID: userID, Type: usecase.OrderTypeCart})
		assert.ErrorIs(t, err, domainErrors.ErrEmptyCart)
	})

	t.Run("unknown type", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.uc.CreateOrder(ctx, usecase.CreateOrderParams{UserID: userID, Type: "wishlist"})
		assert.Error(t, err)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock aborts", func(t *testing.T) {
		f := newOrderFixture()
		productID := uuid.New()
		f.orders.On("Create", ctx, mock.MatchedBy(func(p repository.CreateOrderParams) bool {
			return p.OrderType == usecase.OrderTypeDirect && !p.ClearCart && len(p.Lines) == 1 && p.Lines[0].Quantity == 3 &&
				len(p.OrderNumber) > 3 && len(p.TrackingNumber) == 13
		})).Return(nil, domainErrors.NewInsufficientStockError(productID, "Fern", 3, 1))

		_, err := f.uc.CreateOrder(ctx, usecase.CreateOrderParams{UserID: userID, Type: usecase.OrderTypeDirect, ProductID: productID, Quantity: 3})

		var stockErr *domainErrors.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
		f.orders.AssertExpectations(t)
	})
}
