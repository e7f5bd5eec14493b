package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

// accessClaims is the access token body: {id, role}.
type accessClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// refreshClaims is the refresh token body: {id}.
type refreshClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenUseCase issues and verifies HS256 access and refresh tokens with separate secrets.
type TokenUseCase struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewTokenUseCase(cfg config.JWTConfig) *TokenUseCase {
	return &TokenUseCase{cfg: cfg, now: time.Now}
}

func (uc *TokenUseCase) GenerateTokenPair(userID uuid.UUID, role entity.Role) (*entity.TokenPair, error) {
	now := uc.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		ID:   userID.String(),
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.cfg.AccessTTL)),
		},
	})
	accessToken, err := access.SignedString([]byte(uc.cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		ID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.cfg.RefreshTTL)),
		},
	})
	refreshToken, err := refresh.SignedString([]byte(uc.cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &entity.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// GenerateForUser is GenerateTokenPair for a stored user.
func (uc *TokenUseCase) GenerateForUser(user *model.User) (*entity.TokenPair, error) {
	return uc.GenerateTokenPair(user.ID, user.Role)
}

// ParseAccessToken verifies the signature and expiry and returns the caller identity.
func (uc *TokenUseCase) ParseAccessToken(tokenString string) (*entity.Claims, error) {
	var claims accessClaims
	if err := uc.parse(tokenString, uc.cfg.AccessSecret, &claims); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}
	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return nil, domainErrors.ErrInvalidToken
	}
	return &entity.Claims{UserID: userID, Role: role}, nil
}

// ParseRefreshToken returns the user id carried by a valid refresh token.
func (uc *TokenUseCase) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	var claims refreshClaims
	if err := uc.parse(tokenString, uc.cfg.RefreshSecret, &claims); err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, domainErrors.ErrInvalidToken
	}
	return userID, nil
}

func (uc *TokenUseCase) parse(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid {
		return domainErrors.ErrInvalidToken
	}
	return nil
}
