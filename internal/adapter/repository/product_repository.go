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

type productRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProductRepository {
	return &productRepository{db: db, logger: logger}
}

// Create inserts the product with zero stock, then books any initial stock through the ledger.
func (r *productRepository) Create(ctx context.Context, product *model.Product, createdBy *uuid.UUID) error {
	initial := product.StockQuantity
	product.StockQuantity = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainErrors.ErrDuplicateSKU
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		if initial <= 0 {
			return nil
		}
		_, err := applyStockChange(tx, domainRepo.StockChange{
			ProductID:     product.ID,
			Quantity:      initial,
			Operation:     entity.StockIncrease,
			ReferenceType: entity.ReferenceInitial,
			ReferenceID:   &product.ID,
			CreatedBy:     createdBy,
		})
		return err
	})
	if err != nil {
		return err
	}

	product.StockQuantity = initial
	r.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int("initial_stock", initial))
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.first(ctx, "products.id = ?", id)
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.first(ctx, "products.slug = ?", slug)
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return r.first(ctx, "products.sku = ?", sku)
}

func (r *productRepository) first(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").Where(query, arg).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter domainRepo.ProductFilter) ([]*model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("products.name ILIKE ? OR products.description ILIKE ? OR products.botanical_name ILIKE ?", p, p, p)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.CareLevel != "" {
		query = query.Where("products.care_level = ?", filter.CareLevel)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []*model.Product
	err := paginate(query, filter.PaginationParams).
		Preload("Category").
		Order("products." + filter.Sort.OrderClause()).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// Update saves catalog fields. stock_quantity is never written here.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).Model(product).Omit("stock_quantity", "rating", "review_count", "created_at", "Category").
		Select("*").Updates(product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *productRepository) UpdateThresholds(ctx context.Context, id uuid.UUID, min, max, reorder int) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"min_stock_threshold": min,
		"max_stock_threshold": max,
		"reorder_quantity":    reorder,
		"updated_at":          gorm.Expr("now()"),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update thresholds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrProductNotFound
	}
	return nil
}
