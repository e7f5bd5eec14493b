package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"go.uber.org/zap"
)

type CartHandler struct {
	usecase *usecase.CartUseCase
	logger  *zap.Logger
}

func NewCartHandler(usecase *usecase.CartUseCase, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	cart, err := h.usecase.GetCart(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cart)
}

// ValidateItems handles GET /api/cart/validate
func (h *CartHandler) ValidateItems(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	warnings, err := h.usecase.ValidateCartItems(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]interface{}{
		"valid":        len(warnings) == 0,
		"invalidItems": warnings,
	})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	productID, err := optionalUUID(req.ProductID, "productId")
	if err != nil {
		return err
	}

	item, err := h.usecase.AddToCart(c.Request().Context(), claims.UserID, *productID, req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

// UpdateItem handles PATCH /api/cart/items/:cartItemId
func (h *CartHandler) UpdateItem(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, "cartItemId")
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.usecase.UpdateCartItem(c.Request().Context(), claims.UserID, itemID, req.Quantity); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Cart item updated")
}

// RemoveItem handles DELETE /api/cart/items/:cartItemId
func (h *CartHandler) RemoveItem(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	itemID, err := uuidParam(c, "cartItemId")
	if err != nil {
		return err
	}
	if err := h.usecase.RemoveFromCart(c.Request().Context(), claims.UserID, itemID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Item removed from cart")
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.usecase.ClearCart(c.Request().Context(), claims.UserID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Cart cleared")
}
