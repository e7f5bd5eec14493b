package errors

import (
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

var (
	ErrTicketNotFound      = apperrors.NotFound("Support ticket not found")
	ErrReviewNotFound      = apperrors.NotFound("Review not found")
	ErrReviewNotAllowed    = apperrors.InvalidArgument("You can only review products from your delivered orders")
	ErrDuplicateReview     = apperrors.InvalidArgument("You have already reviewed this product for this order")
	ErrBlogPostNotFound    = apperrors.NotFound("Blog post not found")
	ErrPlantGuideNotFound  = apperrors.NotFound("Plant care guide not found")
	ErrDuplicateContentURL = apperrors.Conflict("Content with this slug already exists")
)
