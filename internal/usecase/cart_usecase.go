package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
)

// CartLine is a cart item joined with the live product.
type CartLine struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartWarning flags an item whose quantity now exceeds stock.
type CartWarning struct {
	CartItemID        uuid.UUID `json:"cartItemId"`
	ProductName       string    `json:"productName"`
	RequestedQuantity int       `json:"requestedQuantity"`
	AvailableQuantity int       `json:"availableQuantity"`
}

// CartView is the aggregated cart returned to the storefront.
type CartView struct {
	Items        []CartLine      `json:"items"`
	TotalItems   int             `json:"totalItems"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	InvalidItems []CartWarning   `json:"invalidItems,omitempty"`
}

type CartUseCase struct {
	logger    *zap.Logger
	carts     repository.CartRepository
	inventory repository.InventoryRepository
}

func NewCartUseCase(logger *zap.Logger, carts repository.CartRepository, inventory repository.InventoryRepository) *CartUseCase {
	return &CartUseCase{logger: logger, carts: carts, inventory: inventory}
}

// GetCart returns an empty view when the user has no cart yet.
func (uc *CartUseCase) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: []CartLine{}, TotalAmount: decimal.Zero}
	if cart == nil {
		return view, nil
	}

	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		p := item.Product
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartLine{
			ID:        item.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Stock:     p.StockQuantity,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		view.TotalItems += item.Quantity
		view.TotalAmount = view.TotalAmount.Add(subtotal)
	}
	view.InvalidItems = validateItems(cart)
	return view, nil
}

// ValidateCartItems lists the items that can no longer be fulfilled. It is advisory only.
func (uc *CartUseCase) ValidateCartItems(ctx context.Context, userID uuid.UUID) ([]CartWarning, error) {
	cart, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}
	return validateItems(cart), nil
}

func validateItems(cart *model.Cart) []CartWarning {
	var warnings []CartWarning
	for _, item := range cart.Items {
		if item.Product == nil || item.Quantity <= item.Product.StockQuantity {
			continue
		}
		warnings = append(warnings, CartWarning{
			CartItemID:        item.ID,
			ProductName:       item.Product.Name,
			RequestedQuantity: item.Quantity,
			AvailableQuantity: item.Product.StockQuantity,
		})
	}
	return warnings
}

// AddToCart checks stock for the resulting quantity; adding to an existing line sums quantities.
func (uc *CartUseCase) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int) (*model.CartItem, error) {
	if qty <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	product, err := uc.inventory.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, domainErrors.ErrProductNotFound
	}

	cart, err := uc.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.carts.GetItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	total := qty
	if existing != nil {
		total += existing.Quantity
	}
	if total > product.StockQuantity {
		return nil, domainErrors.NewInsufficientStockError(product.ID, product.Name, total, product.StockQuantity)
	}

	item, err := uc.carts.AddItem(ctx, cart.ID, productID, qty)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

func (uc *CartUseCase) UpdateCartItem(ctx context.Context, userID, itemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return domainErrors.ErrInvalidQuantity
	}

	item, err := uc.carts.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return err
	}

	product, err := uc.inventory.GetStock(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if qty > product.StockQuantity {
		return domainErrors.NewInsufficientStockError(product.ID, product.Name, qty, product.StockQuantity)
	}
	return uc.carts.UpdateItemQuantity(ctx, item.ID, qty)
}

func (uc *CartUseCase) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := uc.carts.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return uc.carts.DeleteItem(ctx, item.ID)
}

func (uc *CartUseCase) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return uc.carts.Clear(ctx, userID)
}
