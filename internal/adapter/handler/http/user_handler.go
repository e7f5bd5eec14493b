package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase/dto"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// UserHandler serves profile and email endpoints for the caller and the
// super admin user management endpoints.
type UserHandler struct {
	usecase *usecase.UserUseCase
	logger  *zap.Logger
}

func NewUserHandler(usecase *usecase.UserUseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	profile, err := h.usecase.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// SaveProfile handles POST /api/users/profile and POST /api/users/profile/create
func (h *UserHandler) SaveProfile(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ProfileParams
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, created, err := h.usecase.SaveProfile(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return err
	}
	if created {
		return respond(c, http.StatusCreated, profile)
	}
	return respond(c, http.StatusOK, profile)
}

type emailChangeRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

type emailOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// RequestEmailChange handles POST /api/users/request-email-change
func (h *UserHandler) RequestEmailChange(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req emailChangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.usecase.RequestEmailChange(c.Request().Context(), claims.UserID, req.NewEmail); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "OTP sent to your new email address")
}

// VerifyEmailOTP handles POST /api/users/verify-email-otp
func (h *UserHandler) VerifyEmailOTP(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req emailOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	email, err := h.usecase.VerifyEmailOTP(c.Request().Context(), claims.UserID, req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Email updated successfully",
		Data:    echo.Map{"email": email},
	})
}

// ListUsers handles GET /api/users/admin/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := repository.UserFilter{
		PaginationParams: pagination(c),
		Search:           c.QueryParam("search"),
	}
	if r := c.QueryParam("role"); r != "" {
		role, ok := entity.ParseRole(r)
		if !ok {
			return apperrors.Validation(map[string]string{"role": "Unknown role"})
		}
		filter.Role = &role
	}
	var err error
	if filter.IsActive, err = optionalBool(c.QueryParam("is_active"), "is_active"); err != nil {
		return err
	}

	users, meta, err := h.usecase.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, users, meta)
}

// GetUser handles GET /api/users/admin/users/:userId
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	user, err := h.usecase.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user)
}

type userStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SetStatus handles PATCH /api/users/admin/users/:userId/status
func (h *UserHandler) SetStatus(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req userStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.usecase.SetUserStatus(c.Request().Context(), claims.UserID, userID, *req.IsActive); err != nil {
		return err
	}
	if *req.IsActive {
		return respondMessage(c, http.StatusOK, "User activated successfully")
	}
	return respondMessage(c, http.StatusOK, "User deactivated successfully")
}

type userRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetRole handles PATCH /api/users/admin/users/:userId/role
func (h *UserHandler) SetRole(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req userRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, ok := entity.ParseRole(req.Role)
	if !ok {
		return apperrors.Validation(map[string]string{"role": "Unknown role"})
	}
	if err := h.usecase.SetUserRole(c.Request().Context(), claims.UserID, userID, role); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "User role updated successfully")
}

// ManageAdmin handles POST /api/admin/superadmin/admins/manage
func (h *UserHandler) ManageAdmin(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ManageAdminParams
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.usecase.ManageAdmin(c.Request().Context(), claims.UserID, req); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Admin role updated successfully")
}
