package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type inventoryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewInventoryRepository(db *gorm.DB, logger *zap.Logger) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db, logger: logger}
}

func (r *inventoryRepository) GetStock(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Select("id", "name", "sku", "stock_quantity", "min_stock_threshold", "max_stock_threshold", "reorder_quantity", "is_active").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return &product, nil
}

func (r *inventoryRepository) ApplyChange(ctx context.Context, change domainRepo.StockChange) (*model.InventoryMovement, error) {
	var movement *model.InventoryMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = applyStockChange(tx, change)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Stock updated",
		zap.String("product_id", change.ProductID.String()),
		zap.String("operation", string(change.Operation)),
		zap.Int("quantity", change.Quantity),
		zap.Int("quantity_after", movement.QuantityAfter))
	return movement, nil
}

func (r *inventoryRepository) GetStockStatus(ctx context.Context, productID uuid.UUID) (*model.ProductStockStatus, error) {
	var row model.ProductStockStatus
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get stock status: %w", err)
	}
	return &row, nil
}

func (r *inventoryRepository) ListStockStatus(ctx context.Context, filter domainRepo.StockStatusFilter) ([]*model.ProductStockStatus, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ProductStockStatus{})
	if filter.Status != nil {
		query = query.Where("stock_status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock status: %w", err)
	}

	var rows []*model.ProductStockStatus
	if err := paginate(query, filter.PaginationParams).Order("stock_quantity ASC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list stock status: %w", err)
	}
	return rows, total, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]*model.ProductStockStatus, error) {
	var rows []*model.ProductStockStatus
	err := r.db.WithContext(ctx).
		Where("stock_status IN ?", []entity.StockStatus{entity.StockLow, entity.StockOutOfStock}).
		Order("stock_quantity ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return rows, nil
}

func (r *inventoryRepository) ListMovements(ctx context.Context, filter domainRepo.MovementFilter) ([]*model.InventoryMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.InventoryMovement{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	var movements []*model.InventoryMovement
	err := paginate(query, filter.PaginationParams).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "sku") }).
		Order("created_at DESC").
		Find(&movements).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, total, nil
}
