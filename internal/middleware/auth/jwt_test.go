package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"go.uber.org/zap"
)

type MockSessionValidator struct {
	mock.Mock
}

func (m *MockSessionValidator) Validate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTokens() *usecase.TokenUseCase {
	return usecase.NewTokenUseCase(config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func serve(t *testing.T, mw echo.MiddlewareFunc, authHeader string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(handler)(c))
	return rec
}

func ok(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	tokens := newTokens()
	sessions := new(MockSessionValidator)
	userID := uuid.New()

	pair, err := tokens.GenerateTokenPair(userID, entity.RoleCustomer)
	require.NoError(t, err)
	sessions.On("Validate", mock.Anything, userID).Return(nil)

	mw := JWTMiddleware(JWTConfig{Tokens: tokens, Sessions: sessions, Logger: zap.NewNop()})
	rec := serve(t, mw, "Bearer "+pair.AccessToken, func(c echo.Context) error {
		claims, err := GetClaims(c)
		assert.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, entity.RoleCustomer, claims.Role)
		return ok(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	sessions.AssertExpectations(t)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	tokens := newTokens()
	userID := uuid.New()
	pair, err := tokens.GenerateTokenPair(userID, entity.RoleCustomer)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		sessions := new(MockSessionValidator)
		mw := JWTMiddleware(JWTConfig{Tokens: tokens, Sessions: sessions, Logger: zap.NewNop()})
		rec := serve(t, mw, "", ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		sessions.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		sessions := new(MockSessionValidator)
		mw := JWTMiddleware(JWTConfig{Tokens: tokens, Sessions: sessions, Logger: zap.NewNop()})
		rec := serve(t, mw, "Token "+pair.AccessToken, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		sessions := new(MockSessionValidator)
		mw := JWTMiddleware(JWTConfig{Tokens: tokens, Sessions: sessions, Logger: zap.NewNop()})
		rec := serve(t, mw, "Bearer "+pair.RefreshToken, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired session", func(t *testing.T) {
		sessions := new(MockSessionValidator)
		sessions.On("Validate", mock.Anything, userID).Return(domainErrors.ErrSessionExpired)
		mw := JWTMiddleware(JWTConfig{Tokens: tokens, Sessions: sessions, Logger: zap.NewNop()})
		rec := serve(t, mw, "Bearer "+pair.AccessToken, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Session expired. Please login again.")
	})
}

func TestRequireCapability(t *testing.T) {
	cases := []struct {
		name       string
		role       entity.Role
		capability entity.Capability
		want       int
	}{
		{"inventory admin manages inventory", entity.RoleInventoryAdmin, entity.CapManageInventory, http.StatusOK},
		{"order admin cannot manage inventory", entity.RoleOrderAdmin, entity.CapManageInventory, http.StatusForbidden},
		{"super admin satisfies everything", entity.RoleSuperAdmin, entity.CapManageContent, http.StatusOK},
		{"customer is not an admin", entity.RoleCustomer, entity.CapAnyAdmin, http.StatusForbidden},
		{"support admin is an admin", entity.RoleSupportAdmin, entity.CapAnyAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
			req = req.WithContext(WithClaims(req.Context(), &entity.Claims{UserID: uuid.New(), Role: tc.role}))
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, RequireCapability(tc.capability)(ok)(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	t.Run("no claims", func(t *testing.T) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/admin", nil), rec)
		require.NoError(t, RequireCapability(entity.CapAnyAdmin)(ok)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
