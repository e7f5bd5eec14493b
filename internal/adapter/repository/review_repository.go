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
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) domainRepo.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.ProductReview) error {
	if err := r.db.WithContext(ctx).Omit("Product", "User").Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductReview, error) {
	var review model.ProductReview
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) Exists(ctx context.Context, userID, productID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductReview{}).
		Where("user_id = ? AND product_id = ? AND order_id = ?", userID, productID, orderID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) HasDeliveredPurchase(ctx context.Context, userID, productID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.id = ? AND orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			orderID, userID, entity.OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]*model.ProductReview, error) {
	var reviews []*model.ProductReview
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id") }).
		Preload("User.Profile", func(db *gorm.DB) *gorm.DB { return db.Select("user_id", "first_name", "last_name") }).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list product reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.ProductReview, error) {
	var reviews []*model.ProductReview
	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "slug", "image_url") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) List(ctx context.Context, filter domainRepo.ReviewFilter) ([]*model.ProductReview, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ProductReview{})
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []*model.ProductReview
	err := paginate(query, filter.PaginationParams).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "slug") }).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*model.ProductReview, error) {
	var review model.ProductReview
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.ErrReviewNotFound
			}
			return fmt.Errorf("failed to get review: %w", err)
		}
		if err := tx.Model(&review).Updates(map[string]interface{}{
			"is_approved": approved,
			"updated_at":  gorm.Expr("now()"),
		}).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return tx.Exec(`
			UPDATE products SET
				rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM product_reviews WHERE product_id = ? AND is_approved), 0),
				review_count = (SELECT COUNT(*) FROM product_reviews WHERE product_id = ? AND is_approved),
				updated_at = now()
			WHERE id = ?`, review.ProductID, review.ProductID, review.ProductID).Error
	})
	if err != nil {
		return nil, err
	}
	review.IsApproved = approved
	return &review, nil
}
