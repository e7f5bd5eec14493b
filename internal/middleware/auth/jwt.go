package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// contextKey is used for storing claims in the request context
type contextKey string

const claimsContextKey contextKey = "authenticated_user"

// TokenParser verifies an access token.
type TokenParser interface {
	ParseAccessToken(tokenString string) (*entity.Claims, error)
}

// SessionValidator checks and refreshes the caller's live session.
type SessionValidator interface {
	Validate(ctx context.Context, userID uuid.UUID) error
}

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Tokens   TokenParser
	Sessions SessionValidator
	Logger   *zap.Logger
}

// JWTMiddleware verifies the bearer token, then requires and refreshes the
// session of the token's user.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				config.Logger.Debug("Missing authorization header", zap.String("path", path))
				return unauthorized(c, "Access token required")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				return unauthorized(c, "Invalid authorization header format. Expected: Bearer <token>")
			}

			claims, err := config.Tokens.ParseAccessToken(tokenString)
			if err != nil {
				config.Logger.Debug("JWT validation failed", zap.Error(err), zap.String("path", path))
				return unauthorized(c, domainErrors.ErrInvalidToken.Message())
			}

			if err := config.Sessions.Validate(c.Request().Context(), claims.UserID); err != nil {
				var appErr *apperrors.AppError
				if apperrors.As(err, &appErr) && appErr.Code() == apperrors.ErrUnauthenticated {
					return unauthorized(c, appErr.Message())
				}
				apperrors.LogError(config.Logger, err, "Session validation failed",
					zap.String("user_id", claims.UserID.String()))
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"success": false,
					"message": "Something went wrong",
				})
			}

			ctx := context.WithValue(c.Request().Context(), claimsContextKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", claims.UserID.String())

			return next(c)
		}
	}
}

// RequireCapability rejects callers whose role does not satisfy capability.
// It must run after JWTMiddleware.
func RequireCapability(capability entity.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := GetClaims(c)
			if err != nil {
				return unauthorized(c, "Authentication required")
			}
			if !entity.Allow(claims.Role, capability) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": domainErrors.ErrForbidden.Message(),
				})
			}
			return next(c)
		}
	}
}

// GetClaims extracts the authenticated caller from the request context
func GetClaims(c echo.Context) (*entity.Claims, error) {
	claims, ok := c.Request().Context().Value(claimsContextKey).(*entity.Claims)
	if !ok || claims == nil {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}

// WithClaims returns ctx carrying claims. Used by tests and internal callers.
func WithClaims(ctx context.Context, claims *entity.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"message": message,
	})
}
