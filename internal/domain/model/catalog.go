package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
)

// Category is a hierarchical product grouping.
type Category struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name         string     `gorm:"size:120;not null" json:"name"`
	Slug         string     `gorm:"size:140;not null;uniqueIndex" json:"slug"`
	Description  *string    `json:"description,omitempty"`
	ImageURL     *string    `gorm:"column:image_url" json:"image_url,omitempty"`
	DisplayOrder int        `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"default:now()" json:"updated_at"`

	Parent *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// Product is a sellable plant or accessory. StockQuantity changes only through the stock ledger.
type Product struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SKU               string           `gorm:"column:sku;size:64;not null;uniqueIndex" json:"sku"`
	Name              string           `gorm:"size:200;not null" json:"name"`
	Slug              string           `gorm:"size:220;not null;uniqueIndex" json:"slug"`
	Description       *string          `json:"description,omitempty"`
	BotanicalName     *string          `gorm:"size:200" json:"botanical_name,omitempty"`
	Price             decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	ComparePrice      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"compare_price,omitempty"`
	StockQuantity     int              `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	MinStockThreshold int              `gorm:"not null;default:10" json:"min_stock_threshold"`
	MaxStockThreshold int              `gorm:"not null;default:100" json:"max_stock_threshold"`
	ReorderQuantity   int              `gorm:"not null;default:50" json:"reorder_quantity"`
	CategoryID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	CareLevel         *string          `gorm:"size:32;index" json:"care_level,omitempty"`
	LightRequirement  *string          `gorm:"size:64" json:"light_requirement,omitempty"`
	WaterRequirement  *string          `gorm:"size:64" json:"water_requirement,omitempty"`
	ImageURL          *string          `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive          bool             `gorm:"not null;default:true;index" json:"is_active"`
	IsFeatured        bool             `gorm:"not null;default:false" json:"is_featured"`
	Rating            decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	ReviewCount       int              `gorm:"not null;default:0" json:"review_count"`
	CreatedAt         time.Time        `gorm:"default:now();index" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"default:now()" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// StockStatus classifies the current quantity.
func (p *Product) StockStatus() entity.StockStatus {
	return entity.ClassifyStock(p.StockQuantity, p.MinStockThreshold)
}

// ProductStockStatus is a row of the product_stock_status view.
type ProductStockStatus struct {
	ID                uuid.UUID          `json:"id"`
	SKU               string             `gorm:"column:sku" json:"sku"`
	Name              string             `json:"name"`
	StockQuantity     int                `json:"stock_quantity"`
	MinStockThreshold int                `json:"min_stock_threshold"`
	MaxStockThreshold int                `json:"max_stock_threshold"`
	ReorderQuantity   int                `json:"reorder_quantity"`
	StockStatus       entity.StockStatus `json:"stock_status"`
	CategoryName      *string            `json:"category_name,omitempty"`
}

func (ProductStockStatus) TableName() string {
	return "product_stock_status"
}

// InventoryMovement is an append-only record of one stock change.
type InventoryMovement struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID      uuid.UUID             `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity       int                   `gorm:"not null" json:"quantity"`
	MovementType   entity.StockOperation `gorm:"size:16;not null" json:"movement_type"`
	QuantityBefore int                   `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int                   `gorm:"not null" json:"quantity_after"`
	ReferenceType  *string               `gorm:"size:32" json:"reference_type,omitempty"`
	ReferenceID    *uuid.UUID            `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Notes          *string               `json:"notes,omitempty"`
	CreatedBy      *uuid.UUID            `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt      time.Time             `gorm:"default:now();index" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
