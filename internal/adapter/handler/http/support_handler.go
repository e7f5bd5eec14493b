package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

type SupportHandler struct {
	usecase *usecase.SupportUseCase
	logger  *zap.Logger
}

func NewSupportHandler(usecase *usecase.SupportUseCase, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type createTicketRequest struct {
	UserID        string `json:"user_id" validate:"omitempty,uuid"`
	OrderID       string `json:"order_id" validate:"omitempty,uuid"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	CustomerName  string `json:"customer_name"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	AssignedTo    string `json:"assigned_to" validate:"omitempty,uuid"`
}

// CreateTicket handles POST /api/users/support
func (h *SupportHandler) CreateTicket(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	var req createTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	params := usecase.CreateTicketParams{
		CallerID:      claims.UserID,
		CallerRole:    claims.Role,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Subject:       req.Subject,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
	}
	if params.UserID, err = optionalUUID(req.UserID, "user_id"); err != nil {
		return err
	}
	if params.OrderID, err = optionalUUID(req.OrderID, "order_id"); err != nil {
		return err
	}
	if params.AssignedTo, err = optionalUUID(req.AssignedTo, "assigned_to"); err != nil {
		return err
	}

	ticket, err := h.usecase.CreateTicket(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, ticket)
}

// MyTickets handles GET /api/users/support/my-tickets
func (h *SupportHandler) MyTickets(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	tickets, err := h.usecase.MyTickets(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tickets)
}

// ListTickets handles GET /api/admin/support/all
func (h *SupportHandler) ListTickets(c echo.Context) error {
	filter := repository.TicketFilter{
		PaginationParams: pagination(c),
		Search:           c.QueryParam("search"),
	}
	fields := map[string]string{}
	if s := c.QueryParam("status"); s != "" {
		status := entity.TicketStatus(s)
		if !status.Valid() {
			fields["status"] = "Must be one of: open in_progress resolved closed"
		}
		filter.Status = &status
	}
	if p := c.QueryParam("priority"); p != "" {
		priority := entity.TicketPriority(p)
		if !priority.Valid() {
			fields["priority"] = "Must be one of: low medium high urgent"
		}
		filter.Priority = &priority
	}
	if cat := c.QueryParam("category"); cat != "" {
		category := entity.TicketCategory(cat)
		if !category.Valid() {
			fields["category"] = "Must be one of: order_issue plant_care technical general complaint"
		}
		filter.Category = &category
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	var err error
	if filter.AssignedTo, err = optionalUUID(c.QueryParam("assigned_to"), "assigned_to"); err != nil {
		return err
	}

	tickets, meta, err := h.usecase.ListTickets(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, tickets, meta)
}

type updateTicketRequest struct {
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assigned_to" validate:"omitempty,uuid"`
}

// UpdateTicket handles PUT /api/admin/support/:id
func (h *SupportHandler) UpdateTicket(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req updateTicketRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	assignedTo, err := optionalUUID(req.AssignedTo, "assigned_to")
	if err != nil {
		return err
	}

	ticket, err := h.usecase.UpdateTicket(c.Request().Context(), claims.UserID, id, usecase.UpdateTicketParams{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: assignedTo,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticket)
}
