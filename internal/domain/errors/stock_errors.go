package errors

import (
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

// InsufficientStockError is returned when a product cannot cover a requested quantity.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("Insufficient stock for %s. Only %d units available", e.Name, e.Available)
	}
	return fmt.Sprintf("Only %d units available", e.Available)
}

func (e *InsufficientStockError) Code() string { return apperrors.ErrInvalidArgument }

func (e *InsufficientStockError) Unwrap() error { return nil }

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(productID uuid.UUID, name string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Name:      name,
		Requested: requested,
		Available: available,
	}
}

var (
	ErrProductNotFound  = apperrors.NotFound("Product not found")
	ErrCategoryNotFound = apperrors.NotFound("Category not found")
	ErrCategoryInUse    = apperrors.Conflict("Category has products and cannot be deleted")
	ErrInvalidQuantity  = apperrors.InvalidArgument("Quantity must be a positive integer")
	ErrInvalidOperation = apperrors.InvalidArgument("Operation must be increase or decrease")
	ErrInvalidThreshold = apperrors.InvalidArgument("Minimum stock threshold cannot exceed maximum")
	ErrDuplicateSKU     = apperrors.Conflict("A product with this SKU already exists")
	ErrDuplicateSlug    = apperrors.Conflict("A product or category with this slug already exists")
	ErrCartItemNotFound = apperrors.NotFound("Cart item not found")
	ErrEmptyCart        = apperrors.InvalidArgument("Cart is empty")
)
