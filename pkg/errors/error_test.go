package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

type codedErr struct{ code string }

func (e *codedErr) Error() string { return "coded failure" }
func (e *codedErr) Code() string  { return e.code }
func (e *codedErr) Unwrap() error { return nil }

func TestWrapKeepsCode(t *testing.T) {
	base := NotFound("Order not found")
	wrapped := Wrap(base, "failed to load order")

	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.True(t, Is(wrapped, base))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrInternal, CodeOf(New("plain")))
	assert.Equal(t, ErrConflict, CodeOf(fmt.Errorf("ctx: %w", Conflict("dup"))))
	assert.Equal(t, ErrTimeout, CodeOf(&codedErr{code: ErrTimeout}))
}

func TestToHTTPError(t *testing.T) {
	t.Run("app error uses client message", func(t *testing.T) {
		err := NewAppError(ErrInvalidArgument, "Bad quantity", New("strconv failure"))
		httpErr := ToHTTPError(err, false)

		require.NotNil(t, httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		assert.Equal(t, "Bad quantity", httpErr.Message)
	})

	t.Run("internal cause hidden unless exposed", func(t *testing.T) {
		err := Internal("Database unavailable", New("dial tcp: refused"))

		assert.Equal(t, "Database unavailable", ToHTTPError(err, false).Message)
		assert.Equal(t, "Database unavailable: dial tcp: refused", ToHTTPError(err, true).Message)
	})

	t.Run("coded error", func(t *testing.T) {
		httpErr := ToHTTPError(&codedErr{code: ErrUnauthorized}, false)

		assert.Equal(t, http.StatusForbidden, httpErr.Code)
		assert.Equal(t, "coded failure", httpErr.Message)
	})

	t.Run("echo error passes through", func(t *testing.T) {
		httpErr := ToHTTPError(echo.ErrMethodNotAllowed, false)

		assert.Equal(t, http.StatusMethodNotAllowed, httpErr.Code)
	})

	t.Run("unknown error is generic 500", func(t *testing.T) {
		httpErr := ToHTTPError(New("boom"), false)

		assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
		assert.Equal(t, "Something went wrong", httpErr.Message)
	})

	assert.Nil(t, ToHTTPError(nil, false))
}

func TestValidationFields(t *testing.T) {
	err := Validation(map[string]string{"email": "Email is required"})

	assert.Equal(t, ErrInvalidArgument, err.Code())
	assert.Equal(t, "Validation failed", err.Message())
	assert.Equal(t, "Email is required", err.Fields()["email"])
}

func TestToGRPCCode(t *testing.T) {
	assert.Equal(t, codes.OK, ToGRPCCode(nil))
	assert.Equal(t, codes.NotFound, ToGRPCCode(NotFound("x")))
	assert.Equal(t, codes.PermissionDenied, ToGRPCCode(Forbidden("x")))
	assert.Equal(t, codes.Internal, ToGRPCCode(New("x")))
}
