package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	service string
	version string
	checks  map[string]HealthCheck
	logger  *zap.Logger
}

func NewHealthHandler(service, version string, checks map[string]HealthCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		checks:  checks,
		logger:  logger,
	}
}

// Health handles GET /api/health. Any failing dependency turns the status into 503.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	return c.JSON(status, echo.Map{
		"success":      status == http.StatusOK,
		"status":       state,
		"service":      h.service,
		"version":      h.version,
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
	})
}
