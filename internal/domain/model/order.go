package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"gorm.io/datatypes"
)

// Order is a placed order. Status only moves along entity.CanTransition.
type Order struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID               uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderNumber          string                      `gorm:"size:32;not null;uniqueIndex" json:"order_number"`
	OrderType            string                      `gorm:"size:16;not null;default:'cart'" json:"order_type"`
	Subtotal             decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount            decimal.Decimal             `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	ShippingAmount       decimal.Decimal             `gorm:"type:decimal(12,2);not null;default:0" json:"shipping_amount"`
	DiscountAmount       decimal.Decimal             `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TotalAmount          decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status               entity.OrderStatus          `gorm:"size:32;not null;default:'pending';index" json:"status"`
	PaymentStatus        entity.PaymentStatus        `gorm:"size:32;not null;default:'pending'" json:"payment_status"`
	PaymentMethod        *string                     `gorm:"size:32" json:"payment_method,omitempty"`
	PaymentID            *string                     `gorm:"size:100" json:"payment_id,omitempty"`
	GatewayOrderID       *string                     `gorm:"size:100;index" json:"gateway_order_id,omitempty"`
	TrackingNumber       string                      `gorm:"size:32;not null;uniqueIndex" json:"tracking_number"`
	ShippingPartner      *string                     `gorm:"size:100" json:"shipping_partner,omitempty"`
	CancellationReason   *string                     `gorm:"size:64" json:"cancellation_reason,omitempty"`
	CancellationComments *string                     `json:"cancellation_comments,omitempty"`
	ShippingAddress      datatypes.JSONType[Address] `gorm:"type:jsonb" json:"shipping_address"`
	Notes                *string                     `json:"notes,omitempty"`
	PlacedAt             time.Time                   `gorm:"default:now();index" json:"placed_at"`
	ConfirmedAt          *time.Time                  `json:"confirmed_at,omitempty"`
	ProcessingStartedAt  *time.Time                  `json:"processing_started_at,omitempty"`
	PackedAt             *time.Time                  `json:"packed_at,omitempty"`
	ShippedAt            *time.Time                  `json:"shipped_at,omitempty"`
	OutForDeliveryAt     *time.Time                  `json:"out_for_delivery_at,omitempty"`
	DeliveredAt          *time.Time                  `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time                   `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time                   `gorm:"default:now()" json:"updated_at"`

	Items   []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`
	User    *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// StatusTimestampColumn returns the column stamped when the order enters status, if any.
func StatusTimestampColumn(status entity.OrderStatus) string {
	switch status {
	case entity.OrderStatusConfirmed:
		return "confirmed_at"
	case entity.OrderStatusProcessing:
		return "processing_started_at"
	case entity.OrderStatusPacked:
		return "packed_at"
	case entity.OrderStatusShipped:
		return "shipped_at"
	case entity.OrderStatusOutForDelivery:
		return "out_for_delivery_at"
	case entity.OrderStatusDelivered:
		return "delivered_at"
	case entity.OrderStatusCancelled:
		return "cancelled_at"
	}
	return ""
}

// OrderItem snapshots product name and price at order time.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"size:200;not null" json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt   time.Time       `gorm:"default:now()" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory is append-only.
type OrderStatusHistory struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"order_id"`
	Status          entity.OrderStatus `gorm:"size:32;not null" json:"status"`
	Notes           *string            `json:"notes,omitempty"`
	TrackingNumber  *string            `gorm:"size:64" json:"tracking_number,omitempty"`
	ShippingPartner *string            `gorm:"size:100" json:"shipping_partner,omitempty"`
	UpdatedBy       *uuid.UUID         `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt       time.Time          `gorm:"default:now()" json:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// PaymentTransaction is one payment attempt against an order.
type PaymentTransaction struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"order_id"`
	TransactionID   string               `gorm:"size:100;not null;uniqueIndex" json:"transaction_id"`
	PaymentID       *string              `gorm:"size:100" json:"payment_id,omitempty"`
	PaymentGateway  string               `gorm:"size:32;not null" json:"payment_gateway"`
	Amount          decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string               `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Status          entity.PaymentStatus `gorm:"size:32;not null;default:'pending'" json:"status"`
	PaymentMethod   *string              `gorm:"size:32" json:"payment_method,omitempty"`
	GatewayResponse datatypes.JSON       `gorm:"type:jsonb" json:"gateway_response,omitempty"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	CreatedAt       time.Time            `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"default:now()" json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
