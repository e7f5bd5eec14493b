package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	usecase *usecase.InventoryUseCase
	logger  *zap.Logger
}

func NewInventoryHandler(usecase *usecase.InventoryUseCase, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// ListStatus handles GET /api/admin/inventory/status
func (h *InventoryHandler) ListStatus(c echo.Context) error {
	filter := repository.StockStatusFilter{
		PaginationParams: pagination(c),
		Search:           c.QueryParam("search"),
	}
	if s := c.QueryParam("status"); s != "" {
		status, ok := entity.ParseStockStatus(s)
		if !ok {
			return apperrors.Validation(map[string]string{"status": "Must be one of: IN_STOCK LOW OUT_OF_STOCK"})
		}
		filter.Status = &status
	}

	rows, meta, err := h.usecase.ListStatus(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, rows, meta)
}

// ListLowStock handles GET /api/admin/inventory/low-stock
func (h *InventoryHandler) ListLowStock(c echo.Context) error {
	rows, err := h.usecase.ListLowStock(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rows)
}

// ListMovements handles GET /api/admin/inventory/movements
func (h *InventoryHandler) ListMovements(c echo.Context) error {
	filter := repository.MovementFilter{PaginationParams: pagination(c)}

	var err error
	if filter.ProductID, err = optionalUUID(c.QueryParam("productId"), "productId"); err != nil {
		return err
	}
	if filter.StartDate, err = optionalDate(c.QueryParam("startDate"), "startDate"); err != nil {
		return err
	}
	if filter.EndDate, err = optionalDate(c.QueryParam("endDate"), "endDate"); err != nil {
		return err
	}

	movements, meta, err := h.usecase.ListMovements(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, movements, meta)
}

type updateStockRequest struct {
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Operation string `json:"operation" validate:"required,oneof=increase decrease"`
	Notes     string `json:"notes"`
}

// UpdateStock handles PATCH /api/admin/inventory/products/:productId/stock
func (h *InventoryHandler) UpdateStock(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var req updateStockRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	movement, err := h.usecase.UpdateStock(c.Request().Context(), usecase.UpdateStockParams{
		ProductID: productID,
		Quantity:  req.Quantity,
		Operation: entity.StockOperation(req.Operation),
		Notes:     req.Notes,
		ActorID:   &claims.UserID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, movement)
}

type thresholdRequest struct {
	MinStockThreshold int `json:"min_stock_threshold" validate:"gte=0"`
	MaxStockThreshold int `json:"max_stock_threshold" validate:"gte=0"`
	ReorderQuantity   int `json:"reorder_quantity" validate:"gte=0"`
}

// UpdateThresholds handles PATCH /api/admin/inventory/products/:productId/thresholds
func (h *InventoryHandler) UpdateThresholds(c echo.Context) error {
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var req thresholdRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err = h.usecase.UpdateThresholds(c.Request().Context(), productID, usecase.ThresholdParams{
		MinStockThreshold: req.MinStockThreshold,
		MaxStockThreshold: req.MaxStockThreshold,
		ReorderQuantity:   req.ReorderQuantity,
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Stock thresholds updated successfully")
}

// CheckStock handles GET /api/admin/inventory/products/:productId/check?quantity=N
func (h *InventoryHandler) CheckStock(c echo.Context) error {
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var q struct {
		Quantity int `query:"quantity"`
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil || q.Quantity <= 0 {
		return apperrors.Validation(map[string]string{"quantity": "Must be a positive integer"})
	}
	check, err := h.usecase.CheckStock(c.Request().Context(), productID, q.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, check)
}
