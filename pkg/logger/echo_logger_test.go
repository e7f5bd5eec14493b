package logger

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
)

func serve(t *testing.T, exposeInternal bool, handler echo.HandlerFunc) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	WithEchoLogger(e, zap.NewNop(), exposeInternal)
	e.GET("/", handler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandler(t *testing.T) {
	t.Run("validation errors carry fields", func(t *testing.T) {
		code, body := serve(t, false, func(c echo.Context) error {
			return apperrors.Validation(map[string]string{"email": "This field is required"})
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Validation failed", body["message"])
		assert.Equal(t, map[string]interface{}{"email": "This field is required"}, body["errors"])
	})

	t.Run("forbidden", func(t *testing.T) {
		code, body := serve(t, false, func(c echo.Context) error {
			return apperrors.Forbidden("Access denied")
		})
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "Access denied", body["message"])
		assert.NotContains(t, body, "errors")
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		code, body := serve(t, false, func(c echo.Context) error {
			return errors.New("dial tcp 10.0.0.3:5432: connection refused")
		})
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Something went wrong", body["message"])
	})

	t.Run("unknown errors are shown in development", func(t *testing.T) {
		code, body := serve(t, true, func(c echo.Context) error {
			return errors.New("connection refused")
		})
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "connection refused", body["message"])
	})

	t.Run("echo errors pass through", func(t *testing.T) {
		code, body := serve(t, false, func(c echo.Context) error {
			return echo.ErrNotFound
		})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Not Found", body["message"])
	})
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "[MASKED]", maskToken("Bearer abc"))
	assert.Equal(t, "Bearer eyJ...wxyz1", maskToken("Bearer eyJhbGciOiJIUzI1NiJ9.wxyz1"))
}
