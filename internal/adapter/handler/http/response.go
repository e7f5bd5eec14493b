package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/middleware/auth"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/dto"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Pagination *entity.PaginationMeta `json:"pagination,omitempty"`
	Errors     map[string]string      `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: true, Message: message})
}

func respondPage(c echo.Context, data interface{}, meta entity.PaginationMeta) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: &meta})
}

// bind decodes the request into req and runs struct validation.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.InvalidArgument("Invalid request body")
	}
	return c.Validate(req)
}

// caller returns the authenticated user of the request.
func caller(c echo.Context) (*entity.Claims, error) {
	return auth.GetClaims(c)
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation(map[string]string{name: "Must be a valid id"})
	}
	return id, nil
}

func optionalUUID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{field: "Must be a valid id"})
	}
	return &id, nil
}

func optionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation(map[string]string{field: "Must be a date (YYYY-MM-DD)"})
}

func optionalBool(value, field string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{field: "Must be true or false"})
	}
	return &b, nil
}

// pagination reads page and limit; bad numbers fall back to defaults.
func pagination(c echo.Context) entity.PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return entity.PaginationParams{Page: page, Limit: limit}
}

func requestMeta(c echo.Context) dto.RequestMeta {
	return dto.RequestMeta{IP: c.RealIP(), UserAgent: c.Request().UserAgent()}
}
