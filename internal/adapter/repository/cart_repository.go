package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCartRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CartRepository {
	return &cartRepository{db: db, logger: logger}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// GetOrCreate relies on the unique user_id index so concurrent first adds share one cart.
func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart := model.Cart{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&cart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

func (r *cartRepository) GetItemForUser(ctx context.Context, userID, itemID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Preload("Product").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

// AddItem merges into the existing (cart, product) row instead of creating a duplicate.
func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) (*model.CartItem, error) {
	item := model.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	if err := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}
	return &item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).Model(&model.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"quantity":   qty,
		"updated_at": gorm.Expr("now()"),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.CartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return clearCart(r.db.WithContext(ctx), userID)
}

func clearCart(db *gorm.DB, userID uuid.UUID) error {
	err := db.Where("cart_id IN (?)", db.Model(&model.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&model.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
