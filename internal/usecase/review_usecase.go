package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// CreateReviewParams is a customer review of a delivered purchase.
type CreateReviewParams struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	OrderID   uuid.UUID
	Rating    int
	Title     string
	Comment   string
}

type ReviewUseCase struct {
	logger   *zap.Logger
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

func NewReviewUseCase(logger *zap.Logger, reviews repository.ReviewRepository, products repository.ProductRepository) *ReviewUseCase {
	return &ReviewUseCase{logger: logger, reviews: reviews, products: products}
}

// CreateReview stores the review unapproved. One review per user, product and order.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, params CreateReviewParams) (*model.ProductReview, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, apperrors.Validation(map[string]string{"rating": "Rating must be between 1 and 5"})
	}
	if params.OrderID == uuid.Nil {
		return nil, apperrors.Validation(map[string]string{"order_id": "Order is required"})
	}
	if _, err := uc.products.GetByID(ctx, params.ProductID); err != nil {
		return nil, err
	}

	purchased, err := uc.reviews.HasDeliveredPurchase(ctx, params.UserID, params.ProductID, params.OrderID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, domainErrors.ErrReviewNotAllowed
	}

	exists, err := uc.reviews.Exists(ctx, params.UserID, params.ProductID, params.OrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainErrors.ErrDuplicateReview
	}

	review := &model.ProductReview{
		UserID:             params.UserID,
		ProductID:          params.ProductID,
		OrderID:            params.OrderID,
		Rating:             params.Rating,
		Title:              strPtr(strings.TrimSpace(params.Title)),
		Comment:            strPtr(strings.TrimSpace(params.Comment)),
		IsVerifiedPurchase: true,
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	uc.logger.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", params.ProductID.String()))
	return review, nil
}

func (uc *ReviewUseCase) ProductReviews(ctx context.Context, productID uuid.UUID) ([]*model.ProductReview, error) {
	return uc.reviews.ListApprovedByProduct(ctx, productID)
}

func (uc *ReviewUseCase) MyReviews(ctx context.Context, userID uuid.UUID) ([]*model.ProductReview, error) {
	return uc.reviews.ListByUser(ctx, userID)
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, filter repository.ReviewFilter) ([]*model.ProductReview, entity.PaginationMeta, error) {
	filter.Validate()
	reviews, total, err := uc.reviews.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return reviews, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// Moderate approves or hides a review; the product rating is recomputed either way.
func (uc *ReviewUseCase) Moderate(ctx context.Context, id uuid.UUID, approved bool) (*model.ProductReview, error) {
	review, err := uc.reviews.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Review moderated", zap.String("review_id", id.String()), zap.Bool("approved", approved))
	return review, nil
}
