package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyStockChange performs a conditional stock update and writes its movement on tx.
// A decrease only succeeds when the row still holds enough stock, so concurrent writers
// can never take stock_quantity below zero.
func applyStockChange(tx *gorm.DB, change domainRepo.StockChange) (*model.InventoryMovement, error) {
	if change.Quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if !change.Operation.Valid() {
		return nil, domainErrors.ErrInvalidOperation
	}

	var result *gorm.DB
	switch change.Operation {
	case entity.StockDecrease:
		result = tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", change.ProductID, change.Quantity).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity - ?", change.Quantity),
				"updated_at":     gorm.Expr("now()"),
			})
	default:
		result = tx.Model(&model.Product{}).
			Where("id = ?", change.ProductID).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity + ?", change.Quantity),
				"updated_at":     gorm.Expr("now()"),
			})
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update stock: %w", result.Error)
	}

	var product model.Product
	if err := tx.Select("id", "name", "stock_quantity").First(&product, "id = ?", change.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}

	if result.RowsAffected == 0 {
		return nil, domainErrors.NewInsufficientStockError(product.ID, product.Name, change.Quantity, product.StockQuantity)
	}

	after := product.StockQuantity
	before := after + change.Quantity
	if change.Operation == entity.StockIncrease {
		before = after - change.Quantity
	}

	movement := &model.InventoryMovement{
		ProductID:      change.ProductID,
		Quantity:       change.Quantity,
		MovementType:   change.Operation,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceID:    change.ReferenceID,
		CreatedBy:      change.CreatedBy,
	}
	if change.ReferenceType != "" {
		movement.ReferenceType = &change.ReferenceType
	}
	if change.Notes != "" {
		movement.Notes = &change.Notes
	}
	if err := tx.Create(movement).Error; err != nil {
		return nil, fmt.Errorf("failed to record inventory movement: %w", err)
	}

	return movement, nil
}

// lockProducts takes row locks in id order so concurrent orders cannot deadlock.
func lockProducts(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	var products []*model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	byID := make(map[uuid.UUID]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func paginate(db *gorm.DB, p entity.PaginationParams) *gorm.DB {
	return db.Offset(p.CalculateOffset()).Limit(p.Limit)
}

func likePattern(s string) string {
	return "%" + s + "%"
}
