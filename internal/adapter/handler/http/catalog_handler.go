package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// CatalogHandler serves the storefront catalog and the admin product and
// category endpoints.
type CatalogHandler struct {
	usecase *usecase.CatalogUseCase
	logger  *zap.Logger
}

func NewCatalogHandler(usecase *usecase.CatalogUseCase, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter := repository.ProductFilter{
		PaginationParams: pagination(c),
		CategorySlug:     c.QueryParam("category"),
		Search:           c.QueryParam("search"),
		Sort:             entity.ProductSort(c.QueryParam("sort")),
		CareLevel:        c.QueryParam("careLevel"),
	}
	switch filter.Sort {
	case "", entity.SortNewest, entity.SortPriceLow, entity.SortPriceHigh, entity.SortRating:
	default:
		return apperrors.Validation(map[string]string{"sort": "Must be one of: newest price_low price_high rating"})
	}

	var err error
	if filter.MinPrice, err = optionalDecimal(c.QueryParam("minPrice"), "minPrice"); err != nil {
		return err
	}
	if filter.MaxPrice, err = optionalDecimal(c.QueryParam("maxPrice"), "maxPrice"); err != nil {
		return err
	}

	products, meta, err := h.usecase.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, products, meta)
}

// GetProduct handles GET /api/products/:slug
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.usecase.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, product)
}

// ListCategories handles GET /api/products/categories
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.usecase.ListCategories(c.Request().Context(), false)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, categories)
}

type createProductRequest struct {
	SKU               string           `json:"sku" validate:"required"`
	Name              string           `json:"name" validate:"required"`
	Slug              string           `json:"slug"`
	Description       string           `json:"description"`
	BotanicalName     string           `json:"botanical_name"`
	Price             decimal.Decimal  `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	StockQuantity     int              `json:"stock_quantity" validate:"gte=0"`
	MinStockThreshold *int             `json:"min_stock_threshold" validate:"omitempty,gte=0"`
	MaxStockThreshold *int             `json:"max_stock_threshold" validate:"omitempty,gte=0"`
	ReorderQuantity   *int             `json:"reorder_quantity" validate:"omitempty,gte=0"`
	CategoryID        string           `json:"category_id" validate:"required,uuid"`
	CareLevel         string           `json:"care_level"`
	LightRequirement  string           `json:"light_requirement"`
	WaterRequirement  string           `json:"water_requirement"`
	ImageURL          string           `json:"image_url"`
	IsFeatured        bool             `json:"is_featured"`
}

// CreateProduct handles POST /api/admin/inventory/addproduct
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req createProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	categoryID, err := optionalUUID(req.CategoryID, "category_id")
	if err != nil {
		return err
	}

	product, err := h.usecase.CreateProduct(c.Request().Context(), claims.UserID, usecase.CreateProductParams{
		SKU:               req.SKU,
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		BotanicalName:     req.BotanicalName,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		StockQuantity:     req.StockQuantity,
		MinStockThreshold: req.MinStockThreshold,
		MaxStockThreshold: req.MaxStockThreshold,
		ReorderQuantity:   req.ReorderQuantity,
		CategoryID:        *categoryID,
		CareLevel:         req.CareLevel,
		LightRequirement:  req.LightRequirement,
		WaterRequirement:  req.WaterRequirement,
		ImageURL:          req.ImageURL,
		IsFeatured:        req.IsFeatured,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, product)
}

type categoryRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	ParentID     string `json:"parent_id" validate:"omitempty,uuid"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (r categoryRequest) params() (usecase.CategoryParams, error) {
	parentID, err := optionalUUID(r.ParentID, "parent_id")
	if err != nil {
		return usecase.CategoryParams{}, err
	}
	return usecase.CategoryParams{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		ParentID:     parentID,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}, nil
}

// AdminListCategories handles GET /api/admin/inventory/categories
func (h *CatalogHandler) AdminListCategories(c echo.Context) error {
	categories, err := h.usecase.ListCategories(c.Request().Context(), true)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, categories)
}

// CreateCategory handles POST /api/admin/inventory/categories
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	params, err := req.params()
	if err != nil {
		return err
	}
	category, err := h.usecase.CreateCategory(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/admin/inventory/categories/:categoryId
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := uuidParam(c, "categoryId")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	params, err := req.params()
	if err != nil {
		return err
	}
	category, err := h.usecase.UpdateCategory(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/admin/inventory/categories/:categoryId
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uuidParam(c, "categoryId")
	if err != nil {
		return err
	}
	if err := h.usecase.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Category deleted successfully")
}

func optionalDecimal(value, field string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{field: "Must be a number"})
	}
	return &d, nil
}
