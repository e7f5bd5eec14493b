package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

// OrderLine is a requested product and quantity.
type OrderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateOrderParams is everything needed to place an order atomically.
type CreateOrderParams struct {
	UserID          uuid.UUID
	OrderType       string
	Lines           []OrderLine
	Pricing         entity.Pricing
	ShippingAddress model.Address
	PaymentMethod   string
	Notes           string
	OrderNumber     string
	TrackingNumber  string
	ClearCart       bool
}

// StatusChange is one validated transition. Zero-valued optional fields are left untouched.
type StatusChange struct {
	OrderID              uuid.UUID
	To                   entity.OrderStatus
	Notes                string
	TrackingNumber       string
	ShippingPartner      string
	CancellationReason   string
	CancellationComments string
	PaymentStatus        entity.PaymentStatus
	PaymentID            string
	UpdatedBy            *uuid.UUID
	// RestoreStock returns every item to inventory in the same transaction.
	RestoreStock bool
	// OwnerID, when set, rejects the change unless the order belongs to this user.
	OwnerID *uuid.UUID
	// AllowedFrom, when set, further restricts the current status.
	AllowedFrom []entity.OrderStatus
	At          time.Time
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	entity.PaginationParams
	UserID *uuid.UUID
	Status *entity.OrderStatus
}

type OrderRepository interface {
	// Create locks products, verifies stock, inserts order, items, movements and the first
	// history row in one transaction.
	Create(ctx context.Context, params CreateOrderParams) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*model.Order, int64, error)
	// Transition applies a StatusChange. It returns changed=false when the order already has the
	// target status.
	Transition(ctx context.Context, change StatusChange) (*model.Order, bool, error)
	SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error
	History(ctx context.Context, orderID uuid.UUID) ([]*model.OrderStatusHistory, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx *model.PaymentTransaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.PaymentTransaction, error)
	// MarkCompleted applies to pending or failed transactions (a late capture).
	MarkCompleted(ctx context.Context, transactionID, paymentID, method string, paidAt time.Time, response []byte) error
	// MarkFailed applies to pending transactions only; a settled payment is never downgraded.
	MarkFailed(ctx context.Context, transactionID string, response []byte) error
	// MarkRefunded applies to completed transactions only.
	MarkRefunded(ctx context.Context, transactionID string, response []byte) error
}
