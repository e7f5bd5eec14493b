package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"go.uber.org/zap"
)

// AnalyticsHandler serves the super admin dashboard: analytics and the activity log.
type AnalyticsHandler struct {
	analytics *usecase.AnalyticsUseCase
	activity  *usecase.ActivityUseCase
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsUseCase, activity *usecase.ActivityUseCase, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		activity:  activity,
		logger:    logger,
	}
}

// Users handles GET /api/admin/superadmin/analytics/users
func (h *AnalyticsHandler) Users(c echo.Context) error {
	start, err := optionalDate(c.QueryParam("startDate"), "startDate")
	if err != nil {
		return err
	}
	end, err := optionalDate(c.QueryParam("endDate"), "endDate")
	if err != nil {
		return err
	}
	stats, err := h.analytics.UserAnalytics(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// Sales handles GET /api/admin/superadmin/analytics/sales
func (h *AnalyticsHandler) Sales(c echo.Context) error {
	stats, err := h.analytics.SalesAnalytics(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// PlatformStats handles GET /api/admin/superadmin/platform/stats
func (h *AnalyticsHandler) PlatformStats(c echo.Context) error {
	stats, err := h.analytics.PlatformStats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// ActivityLogs handles GET /api/admin/superadmin/activity-logs
func (h *AnalyticsHandler) ActivityLogs(c echo.Context) error {
	filter := repository.ActivityFilter{
		PaginationParams: pagination(c),
		ActionType:       c.QueryParam("type"),
	}
	var err error
	if filter.UserID, err = optionalUUID(c.QueryParam("userId"), "userId"); err != nil {
		return err
	}
	logs, meta, err := h.activity.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, logs, meta)
}
