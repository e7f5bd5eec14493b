package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Mobile   string `json:"mobile_number" validate:"omitempty,len=10,numeric"`
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBindValidation(t *testing.T) {
	t.Run("fields are keyed by json name", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", `{"email":"not-an-email","password":"short","mobile_number":"12ab"}`)

		var req signupRequest
		err := bind(c, &req)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrInvalidArgument, appErr.Code())
		assert.Equal(t, map[string]string{
			"email":         "Must be a valid email address",
			"password":      "Must be at least 8 characters",
			"mobile_number": "Must be exactly 10 characters",
		}, appErr.Fields())
	})

	t.Run("malformed json", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", `{"email":`)

		var req signupRequest
		err := bind(c, &req)
		assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("valid request", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", `{"email":"fern@example.com","password":"longenough"}`)

		var req signupRequest
		require.NoError(t, bind(c, &req))
		assert.Equal(t, "fern@example.com", req.Email)
	})
}

func TestPagination(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/?page=3&limit=abc", "")
	p := pagination(c)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 0, p.Limit)
}

func TestOptionalDate(t *testing.T) {
	d, err := optionalDate("2026-03-01", "startDate")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	d, err = optionalDate("", "startDate")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = optionalDate("yesterday", "startDate")
	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
}

func TestWebhookRequiresSignature(t *testing.T) {
	h := NewWebhookHandler(nil, zap.NewNop())
	c, _ := newContext(http.MethodPost, "/api/webhooks/razorpay", `{"event":"payment.captured"}`)

	err := h.Razorpay(c)
	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
}

func TestAdminOrderViewListsNextStatuses(t *testing.T) {
	t.Run("shipped order", func(t *testing.T) {
		raw, err := json.Marshal(newAdminOrderView(&model.Order{OrderNumber: "NUR-1001", Status: entity.OrderStatusShipped}))
		require.NoError(t, err)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "shipped", body["status"])
		assert.Equal(t, []interface{}{"out_for_delivery", "refunded"}, body["next_statuses"])
	})

	t.Run("refunded order is terminal", func(t *testing.T) {
		view := newAdminOrderView(&model.Order{Status: entity.OrderStatusRefunded})
		assert.Empty(t, view.NextStatuses)
	})
}
