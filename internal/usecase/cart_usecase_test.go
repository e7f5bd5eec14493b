package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
)

func TestCartUseCase_AddToCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product := &model.Product{ID: uuid.New(), Name: "Snake Plant", StockQuantity: 4, IsActive: true}

	t.Run("merged quantity above stock is rejected", func(t *testing.T) {
		carts := new(MockCartRepository)
		inventory := new(MockInventoryRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, inventory)

		inventory.On("GetStock", ctx, product.ID).Return(product, nil)
		carts.On("GetOrCreate", ctx, userID).Return(cart, nil)
		carts.On("GetItem", ctx, cart.ID, product.ID).Return(&model.CartItem{Quantity: 2}, nil)

		_, err := uc.AddToCart(ctx, userID, product.ID, 3)

		var stockErr *domainErrors.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Requested)
		assert.Equal(t, 4, stockErr.Available)
		carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("existing line is merged", func(t *testing.T) {
		carts := new(MockCartRepository)
		inventory := new(MockInventoryRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, inventory)

		inventory.On("GetStock", ctx, product.ID).Return(product, nil)
		carts.On("GetOrCreate", ctx, userID).Return(cart, nil)
		carts.On("GetItem", ctx, cart.ID, product.ID).Return(&model.CartItem{Quantity: 1}, nil)
		carts.On("AddItem", ctx, cart.ID, product.ID, 3).Return(&model.CartItem{ProductID: product.ID, Quantity: 4}, nil)

		item, err := uc.AddToCart(ctx, userID, product.ID, 3)

		require.NoError(t, err)
		assert.Equal(t, 4, item.Quantity)
		carts.AssertExpectations(t)
	})

	t.Run("inactive product is not found", func(t *testing.T) {
		carts := new(MockCartRepository)
		inventory := new(MockInventoryRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, inventory)

		inactive := *product
		inactive.IsActive = false
		inventory.On("GetStock", ctx, product.ID).Return(&inactive, nil)

		_, err := uc.AddToCart(ctx, userID, product.ID, 1)
		assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		uc := usecase.NewCartUseCase(zap.NewNop(), new(MockCartRepository), new(MockInventoryRepository))

		_, err := uc.AddToCart(ctx, userID, product.ID, 0)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidQuantity)
	})
}

func TestCartUseCase_GetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("no cart yields an empty view", func(t *testing.T) {
		carts := new(MockCartRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, new(MockInventoryRepository))
		carts.On("GetByUserID", ctx, userID).Return(nil, nil)

		view, err := uc.GetCart(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, view.Items)
		assert.True(t, view.TotalAmount.IsZero())
	})

	t.Run("totals and stock warnings", func(t *testing.T) {
		carts := new(MockCartRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, new(MockInventoryRepository))

		fern := &model.Product{ID: uuid.New(), Name: "Boston Fern", Price: decimal.RequireFromString("299.50"), StockQuantity: 10}
		cactus := &model.Product{ID: uuid.New(), Name: "Bunny Ear Cactus", Price: decimal.NewFromInt(150), StockQuantity: 1}
		overdrawn := uuid.New()
		carts.On("GetByUserID", ctx, userID).Return(&model.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: []model.CartItem{
				{ID: uuid.New(), ProductID: fern.ID, Quantity: 2, Product: fern},
				{ID: overdrawn, ProductID: cactus.ID, Quantity: 3, Product: cactus},
			},
		}, nil)

		view, err := uc.GetCart(ctx, userID)

		require.NoError(t, err)
		assert.Len(t, view.Items, 2)
		assert.Equal(t, 5, view.TotalItems)
		assert.Equal(t, "1049", view.TotalAmount.String())
		require.Len(t, view.InvalidItems, 1)
		assert.Equal(t, overdrawn, view.InvalidItems[0].CartItemID)
		assert.Equal(t, 1, view.InvalidItems[0].AvailableQuantity)
	})
}

func TestCartUseCase_ValidateCartItems(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("missing cart has nothing to report", func(t *testing.T) {
		carts := new(MockCartRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, new(MockInventoryRepository))
		carts.On("GetByUserID", ctx, userID).Return(nil, nil)

		warnings, err := uc.ValidateCartItems(ctx, userID)

		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("only lines above stock are reported", func(t *testing.T) {
		carts := new(MockCartRepository)
		uc := usecase.NewCartUseCase(zap.NewNop(), carts, new(MockInventoryRepository))

		pothos := &model.Product{ID: uuid.New(), Name: "Golden Pothos", StockQuantity: 5}
		monstera := &model.Product{ID: uuid.New(), Name: "Monstera", StockQuantity: 0}
		short := uuid.New()
		carts.On("GetByUserID", ctx, userID).Return(&model.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: []model.CartItem{
				{ID: uuid.New(), ProductID: pothos.ID, Quantity: 5, Product: pothos},
				{ID: short, ProductID: monstera.ID, Quantity: 1, Product: monstera},
			},
		}, nil)

		warnings, err := uc.ValidateCartItems(ctx, userID)

		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, short, warnings[0].CartItemID)
		assert.Equal(t, "Monstera", warnings[0].ProductName)
		assert.Equal(t, 1, warnings[0].RequestedQuantity)
		assert.Equal(t, 0, warnings[0].AvailableQuantity)
	})
}

func TestCartUseCase_UpdateCartItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()
	product := &model.Product{ID: uuid.New(), Name: "Jade Plant", StockQuantity: 5, IsActive: true}

	carts := new(MockCartRepository)
	inventory := new(MockInventoryRepository)
	uc := usecase.NewCartUseCase(zap.NewNop(), carts, inventory)

	carts.On("GetItemForUser", ctx, userID, itemID).Return(&model.CartItem{ID: itemID, ProductID: product.ID, Quantity: 1}, nil)
	inventory.On("GetStock", ctx, product.ID).Return(product, nil)
	carts.On("UpdateItemQuantity", ctx, itemID, 5).Return(nil)

	assert.NoError(t, uc.UpdateCartItem(ctx, userID, itemID, 5))

	var stockErr *domainErrors.InsufficientStockError
	assert.ErrorAs(t, uc.UpdateCartItem(ctx, userID, itemID, 6), &stockErr)
	carts.AssertNumberOfCalls(t, "UpdateItemQuantity", 1)
}
