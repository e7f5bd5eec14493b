package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// CatalogUseCase serves the storefront catalog and admin product and category management.
type CatalogUseCase struct {
	logger     *zap.Logger
	products   repository.ProductRepository
	categories repository.CategoryRepository
	reviews    repository.ReviewRepository
	inventory  *InventoryUseCase
	activity   *ActivityUseCase
}

func NewCatalogUseCase(
	logger *zap.Logger,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	reviews repository.ReviewRepository,
	inventory *InventoryUseCase,
	activity *ActivityUseCase,
) *CatalogUseCase {
	return &CatalogUseCase{
		logger:     logger,
		products:   products,
		categories: categories,
		reviews:    reviews,
		inventory:  inventory,
		activity:   activity,
	}
}

// ListProducts applies the storefront defaults: 12 per page, newest first, active only.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, entity.PaginationMeta, error) {
	filter.ValidateWithDefault(entity.DefaultProductPage)
	if filter.Sort == "" {
		filter.Sort = entity.SortNewest
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, entity.PaginationMeta{}, apperrors.InvalidArgument("minPrice cannot exceed maxPrice")
	}

	products, total, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return products, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// ProductDetail is a product with its approved reviews.
type ProductDetail struct {
	*model.Product
	Reviews []*model.ProductReview `json:"reviews"`
}

// GetProductBySlug hides inactive products from the storefront.
func (uc *CatalogUseCase) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := uc.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domainErrors.ErrProductNotFound
	}

	reviews, err := uc.reviews.ListApprovedByProduct(ctx, product.ID)
	if err != nil {
		uc.logger.Warn("Failed to load product reviews", zap.String("product_id", product.ID.String()), zap.Error(err))
		reviews = []*model.ProductReview{}
	}
	return &ProductDetail{Product: product, Reviews: reviews}, nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context, includeInactive bool) ([]*model.Category, error) {
	return uc.categories.List(ctx, !includeInactive)
}

// CreateProductParams are the admin inputs for a new product.
type CreateProductParams struct {
	SKU               string
	Name              string
	Slug              string
	Description       string
	BotanicalName     string
	Price             decimal.Decimal
	ComparePrice      *decimal.Decimal
	StockQuantity     int
	MinStockThreshold *int
	MaxStockThreshold *int
	ReorderQuantity   *int
	CategoryID        uuid.UUID
	CareLevel         string
	LightRequirement  string
	WaterRequirement  string
	ImageURL          string
	IsFeatured        bool
}

// CreateProduct derives the slug from the name when absent; starting stock is booked as an
// increase movement in the same transaction.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, actorID uuid.UUID, params CreateProductParams) (*model.Product, error) {
	fields := map[string]string{}
	if strings.TrimSpace(params.SKU) == "" {
		fields["sku"] = "SKU is required"
	}
	if strings.TrimSpace(params.Name) == "" {
		fields["name"] = "Name is required"
	}
	if params.CategoryID == uuid.Nil {
		fields["category_id"] = "Category is required"
	}
	if !params.Price.IsPositive() {
		fields["price"] = "Price must be greater than zero"
	}
	if params.StockQuantity < 0 {
		fields["stock_quantity"] = "Stock quantity cannot be negative"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	if _, err := uc.categories.GetByID(ctx, params.CategoryID); err != nil {
		return nil, err
	}

	slug := params.Slug
	if slug == "" {
		slug = Slugify(params.Name)
	} else {
		slug = Slugify(slug)
	}

	product := &model.Product{
		SKU:               strings.TrimSpace(params.SKU),
		Name:              strings.TrimSpace(params.Name),
		Slug:              slug,
		Description:       strPtr(params.Description),
		BotanicalName:     strPtr(params.BotanicalName),
		Price:             params.Price,
		ComparePrice:      params.ComparePrice,
		StockQuantity:     params.StockQuantity,
		MinStockThreshold: 10,
		MaxStockThreshold: 100,
		ReorderQuantity:   50,
		CategoryID:        params.CategoryID,
		CareLevel:         strPtr(params.CareLevel),
		LightRequirement:  strPtr(params.LightRequirement),
		WaterRequirement:  strPtr(params.WaterRequirement),
		ImageURL:          strPtr(params.ImageURL),
		IsActive:          true,
		IsFeatured:        params.IsFeatured,
	}
	if params.MinStockThreshold != nil {
		product.MinStockThreshold = *params.MinStockThreshold
	}
	if params.MaxStockThreshold != nil {
		product.MaxStockThreshold = *params.MaxStockThreshold
	}
	if params.ReorderQuantity != nil {
		product.ReorderQuantity = *params.ReorderQuantity
	}
	if product.MinStockThreshold > product.MaxStockThreshold {
		return nil, domainErrors.ErrInvalidThreshold
	}

	if err := uc.products.Create(ctx, product, &actorID); err != nil {
		return nil, err
	}

	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &actorID,
		ActionType: entity.ActivityProductCreate,
		EntityType: "product",
		EntityID:   product.ID.String(),
		Details:    map[string]interface{}{"sku": product.SKU, "initial_stock": product.StockQuantity},
	})

	if product.StockQuantity > 0 {
		uc.inventory.CheckAndNotifyLowStock(ctx, product.ID)
	}
	return product, nil
}

// CategoryParams are the editable fields of a category.
type CategoryParams struct {
	Name         string
	Slug         string
	Description  string
	ImageURL     string
	ParentID     *uuid.UUID
	DisplayOrder int
	IsActive     *bool
}

func (uc *CatalogUseCase) CreateCategory(ctx context.Context, params CategoryParams) (*model.Category, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperrors.Validation(map[string]string{"name": "Name is required"})
	}
	if params.ParentID != nil {
		if _, err := uc.categories.GetByID(ctx, *params.ParentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{
		Name:         strings.TrimSpace(params.Name),
		Slug:         categorySlug(params),
		Description:  strPtr(params.Description),
		ImageURL:     strPtr(params.ImageURL),
		ParentID:     params.ParentID,
		DisplayOrder: params.DisplayOrder,
		IsActive:     true,
	}
	if params.IsActive != nil {
		category.IsActive = *params.IsActive
	}
	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id uuid.UUID, params CategoryParams) (*model.Category, error) {
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != "" {
		category.Name = strings.TrimSpace(params.Name)
	}
	if params.Slug != "" {
		category.Slug = Slugify(params.Slug)
	}
	if params.Description != "" {
		category.Description = &params.Description
	}
	if params.ImageURL != "" {
		category.ImageURL = &params.ImageURL
	}
	if params.ParentID != nil {
		if *params.ParentID == id {
			return nil, apperrors.InvalidArgument("A category cannot be its own parent")
		}
		category.ParentID = params.ParentID
	}
	category.DisplayOrder = params.DisplayOrder
	if params.IsActive != nil {
		category.IsActive = *params.IsActive
	}

	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses while products still reference the category.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := uc.categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainErrors.ErrCategoryInUse
	}
	return uc.categories.Delete(ctx, id)
}

func categorySlug(params CategoryParams) string {
	if params.Slug != "" {
		return Slugify(params.Slug)
	}
	return Slugify(params.Name)
}
