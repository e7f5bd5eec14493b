package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"go.uber.org/zap"
)

type ContentHandler struct {
	usecase *usecase.ContentUseCase
	logger  *zap.Logger
}

func NewContentHandler(usecase *usecase.ContentUseCase, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// contentRequest is shared by blog posts and plant guides. Category is the
// blog category; PlantType is the guide's plant type.
type contentRequest struct {
	Title            string   `json:"title" validate:"max=255"`
	Slug             string   `json:"slug" validate:"max=255"`
	Content          string   `json:"content"`
	Excerpt          string   `json:"excerpt"`
	FeaturedImageURL string   `json:"featured_image_url"`
	Category         string   `json:"category"`
	PlantType        string   `json:"plant_type"`
	DifficultyLevel  string   `json:"difficulty_level"`
	Tags             []string `json:"tags"`
	IsPublished      *bool    `json:"is_published"`
}

func (r contentRequest) params(guide bool) usecase.ContentParams {
	category := r.Category
	if guide {
		category = r.PlantType
	}
	return usecase.ContentParams{
		Title:            r.Title,
		Slug:             r.Slug,
		Content:          r.Content,
		Excerpt:          r.Excerpt,
		FeaturedImageURL: r.FeaturedImageURL,
		Category:         category,
		DifficultyLevel:  r.DifficultyLevel,
		Tags:             r.Tags,
		IsPublished:      r.IsPublished,
	}
}

func contentFilter(c echo.Context, categoryParam string, publishedOnly bool) repository.ContentFilter {
	return repository.ContentFilter{
		PaginationParams: pagination(c),
		Search:           c.QueryParam("search"),
		Category:         c.QueryParam(categoryParam),
		PublishedOnly:    publishedOnly,
	}
}

// PublicPosts handles GET /api/content/blog
func (h *ContentHandler) PublicPosts(c echo.Context) error {
	posts, meta, err := h.usecase.ListPosts(c.Request().Context(), contentFilter(c, "category", true))
	if err != nil {
		return err
	}
	return respondPage(c, posts, meta)
}

// PublicGuides handles GET /api/content/plant-guides
func (h *ContentHandler) PublicGuides(c echo.Context) error {
	guides, meta, err := h.usecase.ListGuides(c.Request().Context(), contentFilter(c, "plant_type", true))
	if err != nil {
		return err
	}
	return respondPage(c, guides, meta)
}

// ListPosts handles GET /api/admin/content/blog
func (h *ContentHandler) ListPosts(c echo.Context) error {
	posts, meta, err := h.usecase.ListPosts(c.Request().Context(), contentFilter(c, "category", false))
	if err != nil {
		return err
	}
	return respondPage(c, posts, meta)
}

// GetPost handles GET /api/admin/content/blog/:id
func (h *ContentHandler) GetPost(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	post, err := h.usecase.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post)
}

// CreatePost handles POST /api/admin/content/blog
func (h *ContentHandler) CreatePost(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req contentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.usecase.CreatePost(c.Request().Context(), claims.UserID, req.params(false))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/admin/content/blog/:id
func (h *ContentHandler) UpdatePost(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req contentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.usecase.UpdatePost(c.Request().Context(), id, req.params(false))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, post)
}

// DeletePost handles DELETE /api/admin/content/blog/:id
func (h *ContentHandler) DeletePost(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.usecase.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Blog post deleted successfully")
}

// ListGuides handles GET /api/admin/content/plant-guides
func (h *ContentHandler) ListGuides(c echo.Context) error {
	guides, meta, err := h.usecase.ListGuides(c.Request().Context(), contentFilter(c, "plant_type", false))
	if err != nil {
		return err
	}
	return respondPage(c, guides, meta)
}

// GetGuide handles GET /api/admin/content/plant-guides/:id
func (h *ContentHandler) GetGuide(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	guide, err := h.usecase.GetGuide(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, guide)
}

// CreateGuide handles POST /api/admin/content/plant-guides
func (h *ContentHandler) CreateGuide(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req contentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	guide, err := h.usecase.CreateGuide(c.Request().Context(), claims.UserID, req.params(true))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, guide)
}

// UpdateGuide handles PUT /api/admin/content/plant-guides/:id
func (h *ContentHandler) UpdateGuide(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req contentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	guide, err := h.usecase.UpdateGuide(c.Request().Context(), id, req.params(true))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, guide)
}

// DeleteGuide handles DELETE /api/admin/content/plant-guides/:id
func (h *ContentHandler) DeleteGuide(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.usecase.DeleteGuide(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Plant care guide deleted successfully")
}
