package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

// ProductFilter is the public catalog query.
type ProductFilter struct {
	entity.PaginationParams
	CategorySlug    string
	Search          string
	Sort            entity.ProductSort
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	CareLevel       string
	IncludeInactive bool
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	// List returns categories ordered by display_order; activeOnly hides inactive ones.
	List(ctx context.Context, activeOnly bool) ([]*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

type ProductRepository interface {
	// Create inserts the product and, when it starts with stock, an initial increase movement.
	Create(ctx context.Context, product *model.Product, createdBy *uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateThresholds(ctx context.Context, id uuid.UUID, min, max, reorder int) error
}

// StockChange is one ledger write.
type StockChange struct {
	ProductID     uuid.UUID
	Quantity      int
	Operation     entity.StockOperation
	ReferenceType string
	ReferenceID   *uuid.UUID
	Notes         string
	CreatedBy     *uuid.UUID
}

// StockStatusFilter narrows the inventory status view.
type StockStatusFilter struct {
	entity.PaginationParams
	Status *entity.StockStatus
	Search string
}

// MovementFilter narrows the movement ledger listing.
type MovementFilter struct {
	entity.PaginationParams
	ProductID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// InventoryRepository is the stock ledger storage. Every quantity change writes one movement
// in the same transaction and a decrease never takes stock below zero.
type InventoryRepository interface {
	GetStock(ctx context.Context, productID uuid.UUID) (*model.Product, error)
	ApplyChange(ctx context.Context, change StockChange) (*model.InventoryMovement, error)
	GetStockStatus(ctx context.Context, productID uuid.UUID) (*model.ProductStockStatus, error)
	ListStockStatus(ctx context.Context, filter StockStatusFilter) ([]*model.ProductStockStatus, int64, error)
	ListLowStock(ctx context.Context) ([]*model.ProductStockStatus, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]*model.InventoryMovement, int64, error)
}

type CartRepository interface {
	// GetByUserID returns the cart with items and products preloaded, or nil when none exists.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error)
	// GetItemForUser returns the item only if it belongs to the user's cart.
	GetItemForUser(ctx context.Context, userID, itemID uuid.UUID) (*model.CartItem, error)
	// AddItem inserts the item or adds qty to the existing row for the same product.
	AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) (*model.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, qty int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
