package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
)

// MockSessionStore is a mock implementation of SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionStore) Set(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionStore) SetIfAbsent(ctx context.Context, session *entity.Session) (bool, error) {
	args := m.Called(ctx, session)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) Touch(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

// MockOTPStore is a mock implementation of OTPStore
type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Save(ctx context.Context, key string, record *entity.OTPRecord, ttl time.Duration) error {
	return m.Called(ctx, key, record, ttl).Error(0)
}

func (m *MockOTPStore) ConsumeAttempt(ctx context.Context, key string) (*entity.OTPRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OTPRecord), args.Error(1)
}

func (m *MockOTPStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*model.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ListActiveByRole(ctx context.Context, role entity.Role) ([]*model.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return m.Called(ctx, id, email).Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id uuid.UUID, role entity.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

// MockCartRepository is a mock implementation of CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetItemForUser(ctx context.Context, userID, itemID uuid.UUID) (*model.CartItem, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) (*model.CartItem, error) {
	args := m.Called(ctx, cartID, productID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, qty int) error {
	return m.Called(ctx, itemID, qty).Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetStock(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockInventoryRepository) ApplyChange(ctx context.Context, change repository.StockChange) (*model.InventoryMovement, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryMovement), args.Error(1)
}

func (m *MockInventoryRepository) GetStockStatus(ctx context.Context, productID uuid.UUID) (*model.ProductStockStatus, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductStockStatus), args.Error(1)
}

func (m *MockInventoryRepository) ListStockStatus(ctx context.Context, filter repository.StockStatusFilter) ([]*model.ProductStockStatus, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.ProductStockStatus), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context) ([]*model.ProductStockStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.ProductStockStatus), args.Error(1)
}

func (m *MockInventoryRepository) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*model.InventoryMovement, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.InventoryMovement), args.Get(1).(int64), args.Error(2)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, params repository.CreateOrderParams) (*model.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*model.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Transition(ctx context.Context, change repository.StatusChange) (*model.Order, bool, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Bool(1), args.Error(2)
}

func (m *MockOrderRepository) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	return m.Called(ctx, id, gatewayOrderID).Error(0)
}

func (m *MockOrderRepository) History(ctx context.Context, orderID uuid.UUID) ([]*model.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*model.OrderStatusHistory), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.PaymentTransaction, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*model.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentRepository) MarkCompleted(ctx context.Context, transactionID, paymentID, method string, paidAt time.Time, response []byte) error {
	return m.Called(ctx, transactionID, paymentID, method, paidAt, response).Error(0)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, transactionID string, response []byte) error {
	return m.Called(ctx, transactionID, response).Error(0)
}

func (m *MockPaymentRepository) MarkRefunded(ctx context.Context, transactionID string, response []byte) error {
	return m.Called(ctx, transactionID, response).Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Enqueue(ctx context.Context, n *model.NotificationOutbox) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*model.NotificationOutbox, error) {
	args := m.Called(ctx, now, limit, lease)
	return args.Get(0).([]*model.NotificationOutbox), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockNotificationRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string) error {
	return m.Called(ctx, id, attempts, next, lastErr).Error(0)
}

func (m *MockNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return m.Called(ctx, id, attempts, lastErr).Error(0)
}

// MockActivityLogRepository is a mock implementation of ActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Create(ctx context.Context, log *model.ActivityLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockActivityLogRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]*model.ActivityLog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*model.ActivityLog), args.Get(1).(int64), args.Error(2)
}

// MockGateways resolves payment providers for tests.
type MockGateways struct {
	mock.Mock
}

func (m *MockGateways) Default() (provider.PaymentProvider, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.PaymentProvider), args.Error(1)
}

func (m *MockGateways) GetProviderFromString(name string) (provider.PaymentProvider, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.PaymentProvider), args.Error(1)
}

// MockPaymentProvider is a mock implementation of PaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) InitializePayment(ctx context.Context, req *provider.InitializePaymentRequest) (*provider.InitializePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.InitializePaymentResponse), args.Error(1)
}

func (m *MockPaymentProvider) ConfirmPayment(ctx context.Context, req *provider.ConfirmPaymentRequest) (*provider.ConfirmPaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ConfirmPaymentResponse), args.Error(1)
}

func (m *MockPaymentProvider) RefundPayment(ctx context.Context, req *provider.RefundRequest) (*provider.RefundResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RefundResponse), args.Error(1)
}

func (m *MockPaymentProvider) HandleWebhook(ctx context.Context, payload []byte, signature string) (*provider.WebhookEvent, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.WebhookEvent), args.Error(1)
}

func (m *MockPaymentProvider) PublicKey() string {
	return m.Called().String(0)
}

func (m *MockPaymentProvider) GetProviderName() string {
	return m.Called().String(0)
}
