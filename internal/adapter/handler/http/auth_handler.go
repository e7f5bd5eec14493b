package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/dto"
	"go.uber.org/zap"
)

type AuthHandler struct {
	usecase *usecase.AuthUseCase
	logger  *zap.Logger
}

func NewAuthHandler(usecase *usecase.AuthUseCase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifySignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type createAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// SendSignupOTP handles POST /api/auth/signup/send-otp
func (h *AuthHandler) SendSignupOTP(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.usecase.SendSignupOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "OTP sent to your email")
}

// VerifySignup handles POST /api/auth/signup/verify
func (h *AuthHandler) VerifySignup(c echo.Context) error {
	var req verifySignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.usecase.VerifySignup(c.Request().Context(), dto.VerifySignupParams{
		Email:    req.Email,
		OTP:      req.OTP,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, dto.AuthUser{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	meta := requestMeta(c)
	result, err := h.usecase.Login(c.Request().Context(), dto.LoginParams{
		Email:     req.Email,
		Password:  req.Password,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}

// RefreshToken handles POST /api/auth/token/refresh
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.usecase.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pair)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.usecase.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "If an account exists for this email, a reset link has been sent")
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	err := h.usecase.ResetPassword(c.Request().Context(), dto.ResetPasswordParams{
		Token:           req.Token,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Password has been reset successfully")
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.usecase.Logout(c.Request().Context(), claims.UserID, requestMeta(c)); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Logged out successfully")
}

// CreateAdmin handles POST /api/admin/create-admin
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req createAdminRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.usecase.CreateAdmin(c.Request().Context(), claims.UserID, dto.CreateAdminParams{
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		return err
	}

	h.logger.Info("Admin account created",
		zap.String("actor_id", claims.UserID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return respond(c, http.StatusCreated, dto.AuthUser{
		ID:         user.ID,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	})
}
