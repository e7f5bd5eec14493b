package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider/razorpay"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

const webhookSecret = "whsec_test"

func newPaymentFixture() (*orderFixture, *usecase.PaymentUseCase) {
	f := newOrderFixture()
	payments := usecase.NewPaymentUseCase(zap.NewNop(), f.orders, f.payments, f.users, nil, f.gateways, f.uc, "INR", "Nursery")
	return f, payments
}

func capturedPayload(orderID uuid.UUID) []byte {
	return []byte(fmt.Sprintf(`{"event":"payment.captured","created_at":1700000000,"payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_gw","amount":49900,"method":"upi","notes":{"orderId":"%s"}}}}}`, orderID))
}

func TestPaymentUseCase_HandleWebhook(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	userID := uuid.New()
	gateway := razorpay.NewRazorpayProvider("", "rzp_key", "rzp_secret", webhookSecret, zap.NewNop())

	t.Run("bad signature changes nothing", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		payload := capturedPayload(orderID)

		err := uc.HandleWebhook(ctx, "razorpay", payload, razorpay.Sign(string(payload), "attacker"))

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
		f.payments.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("captured payment confirms the order", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.expectSideEffects(userID)
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		f.payments.On("MarkCompleted", ctx, "order_gw", "pay_1", "upi", mock.AnythingOfType("time.Time"), mock.Anything).Return(nil)
		f.orders.On("Transition", ctx, mock.MatchedBy(func(c repository.StatusChange) bool {
			return c.OrderID == orderID &&
				c.To == entity.OrderStatusConfirmed &&
				c.PaymentStatus == entity.PaymentStatusCompleted &&
				c.PaymentID == "pay_1"
		})).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusConfirmed}, true, nil)

		payload := capturedPayload(orderID)
		err := uc.HandleWebhook(ctx, "razorpay", payload, razorpay.Sign(string(payload), webhookSecret))

		require.NoError(t, err)
		f.orders.AssertExpectations(t)
		f.payments.AssertExpectations(t)
		f.outbox.AssertCalled(t, "Enqueue", mock.Anything, mock.MatchedBy(func(n *model.NotificationOutbox) bool {
			return n.Kind == entity.NotifyOrderConfirmation
		}))
	})

	t.Run("event that no longer applies is acknowledged", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		f.orders.On("Transition", ctx, mock.Anything).Return(nil, false,
			domainErrors.NewInvalidTransitionError(entity.OrderStatusCancelled, entity.OrderStatusConfirmed))

		payload := capturedPayload(orderID)
		assert.NoError(t, uc.HandleWebhook(ctx, "razorpay", payload, razorpay.Sign(string(payload), webhookSecret)))
		f.payments.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("late failure on a paid order leaves the transaction alone", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		f.orders.On("Transition", ctx, mock.MatchedBy(func(c repository.StatusChange) bool {
			return c.To == entity.OrderStatusPaymentFailed
		})).Return(nil, false, domainErrors.NewInvalidTransitionError(entity.OrderStatusConfirmed, entity.OrderStatusPaymentFailed))

		payload := []byte(fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_3","order_id":"order_gw","notes":{"orderId":"%s"}}}}}`, orderID))
		require.NoError(t, uc.HandleWebhook(ctx, "razorpay", payload, razorpay.Sign(string(payload), webhookSecret)))
		f.payments.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsupported event is acknowledged without changes", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)

		payload := []byte(`{"event":"payment.authorized","payload":{}}`)
		assert.NoError(t, uc.HandleWebhook(ctx, "razorpay", payload, razorpay.Sign(string(payload), webhookSecret)))
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	})

	t.Run("order resolved by gateway order id", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.expectSideEffects(userID)
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		f.orders.On("GetByGatewayOrderID", ctx, "order_gw").Return(&model.Order{ID: orderID}, nil)
		f.payments.On("MarkFailed", ctx, "order_gw", mock.Anything).Return(nil)
		f.orders.On("Transition", ctx, mock.MatchedBy(func(c repository.StatusChange) bool {
			return c.OrderID == orderID && c.To == entity.OrderStatusPaymentFailed && c.PaymentStatus == entity.PaymentStatusFailed
		})).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusPaymentFailed}, true, nil)

		payload := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_2","order_id":"order_gw"}}}}`)
		require.NoError(t, uc.HandleWebhook(ctx, "razorpay", payload, razorpay.Sign(string(payload), webhookSecret)))
		f.orders.AssertExpectations(t)
	})

	t.Run("unknown gateway", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.gateways.On("GetProviderFromString", "paypal").Return(nil, fmt.Errorf("unsupported provider"))

		err := uc.HandleWebhook(ctx, "paypal", []byte(`{}`), "sig")
		assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
	})
}

func TestPaymentUseCase_VerifyPayment(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	userID := uuid.New()

	t.Run("signature mismatch marks the transaction failed and keeps the order", func(t *testing.T) {
		f, uc := newPaymentFixture()
		gateway := new(MockPaymentProvider)
		f.payments.On("GetByTransactionID", ctx, "order_gw").Return(&model.PaymentTransaction{
			OrderID: orderID, TransactionID: "order_gw", PaymentGateway: "razorpay", Status: entity.PaymentStatusPending,
		}, nil)
		f.orders.On("GetByID", ctx, orderID).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusPending}, nil)
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		gateway.On("ConfirmPayment", ctx, mock.Anything).Return(nil, provider.ErrSignatureMismatch)
		f.payments.On("MarkFailed", ctx, "order_gw", mock.Anything).Return(nil)

		_, err := uc.VerifyPayment(ctx, userID, usecase.VerifyPaymentParams{
			GatewayOrderID:   "order_gw",
			GatewayPaymentID: "pay_1",
			Signature:        "forged",
		})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidSignature)
		f.payments.AssertExpectations(t)
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	})

	t.Run("replayed bad signature never downgrades a completed payment", func(t *testing.T) {
		f, uc := newPaymentFixture()
		gateway := new(MockPaymentProvider)
		f.payments.On("GetByTransactionID", ctx, "order_gw").Return(&model.PaymentTransaction{
			OrderID: orderID, TransactionID: "order_gw", PaymentGateway: "razorpay", Status: entity.PaymentStatusCompleted,
		}, nil)
		f.orders.On("GetByID", ctx, orderID).Return(&model.Order{ID: orderID, UserID: userID, Status: entity.OrderStatusConfirmed}, nil)
		f.gateways.On("GetProviderFromString", "razorpay").Return(gateway, nil)
		gateway.On("ConfirmPayment", ctx, mock.Anything).Return(nil, provider.ErrSignatureMismatch)

		_, err := uc.VerifyPayment(ctx, userID, usecase.VerifyPaymentParams{
			GatewayOrderID:   "order_gw",
			GatewayPaymentID: "pay_1",
			Signature:        "garbage",
		})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidSignature)
		f.payments.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything)
	})

	t.Run("other user's transaction is forbidden", func(t *testing.T) {
		f, uc := newPaymentFixture()
		f.payments.On("GetByTransactionID", ctx, "order_gw").Return(&model.PaymentTransaction{OrderID: orderID, PaymentGateway: "razorpay"}, nil)
		f.orders.On("GetByID", ctx, orderID).Return(&model.Order{ID: orderID, UserID: uuid.New()}, nil)

		_, err := uc.VerifyPayment(ctx, userID, usecase.VerifyPaymentParams{GatewayOrderID: "order_gw", GatewayPaymentID: "pay_1", Signature: "x"})
		assert.ErrorIs(t, err, domainErrors.ErrOrderAccessDenied)
	})
}
