package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	usecase *usecase.ReviewUseCase
	logger  *zap.Logger
}

func NewReviewHandler(usecase *usecase.ReviewUseCase, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type createReviewRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,gte=1,max=5"`
	Title   string `json:"title" validate:"max=200"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Create handles POST /api/reviews/products/:productId/reviews
func (h *ReviewHandler) Create(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	orderID, err := optionalUUID(req.OrderID, "order_id")
	if err != nil {
		return err
	}

	review, err := h.usecase.CreateReview(c.Request().Context(), usecase.CreateReviewParams{
		UserID:    claims.UserID,
		ProductID: productID,
		OrderID:   *orderID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: "Review submitted and awaiting approval",
		Data:    review,
	})
}

// ProductReviews handles GET /api/reviews/products/:productId/reviews
func (h *ReviewHandler) ProductReviews(c echo.Context) error {
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	reviews, err := h.usecase.ProductReviews(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reviews)
}

// MyReviews handles GET /api/reviews/my-reviews
func (h *ReviewHandler) MyReviews(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	reviews, err := h.usecase.MyReviews(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, reviews)
}

// List handles GET /api/admin/content/reviews
func (h *ReviewHandler) List(c echo.Context) error {
	filter := repository.ReviewFilter{PaginationParams: pagination(c)}
	var err error
	if filter.IsApproved, err = optionalBool(c.QueryParam("is_approved"), "is_approved"); err != nil {
		return err
	}
	if filter.ProductID, err = optionalUUID(c.QueryParam("productId"), "productId"); err != nil {
		return err
	}
	reviews, meta, err := h.usecase.ListReviews(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, reviews, meta)
}

type moderateReviewRequest struct {
	IsApproved *bool `json:"is_approved" validate:"required"`
}

// Moderate handles PATCH /api/admin/content/reviews/:id
func (h *ReviewHandler) Moderate(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req moderateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	review, err := h.usecase.Moderate(c.Request().Context(), id, *req.IsApproved)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, review)
}
