package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// CreateTicketParams is a new support ticket. Admins may open tickets on behalf of a user
// or a guest; customers always open them for themselves.
type CreateTicketParams struct {
	CallerID      uuid.UUID
	CallerRole    entity.Role
	UserID        *uuid.UUID
	OrderID       *uuid.UUID
	CustomerEmail string
	CustomerName  string
	Subject       string
	Description   string
	Category      string
	Priority      string
	AssignedTo    *uuid.UUID
}

// UpdateTicketParams holds admin edits; empty values are left untouched.
type UpdateTicketParams struct {
	Status     string
	Priority   string
	AssignedTo *uuid.UUID
}

type SupportUseCase struct {
	logger        *zap.Logger
	tickets       repository.SupportTicketRepository
	users         repository.UserRepository
	profiles      repository.ProfileRepository
	notifications *NotificationUseCase
	activity      *ActivityUseCase
	now           func() time.Time
}

func NewSupportUseCase(
	logger *zap.Logger,
	tickets repository.SupportTicketRepository,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	notifications *NotificationUseCase,
	activity *ActivityUseCase,
) *SupportUseCase {
	return &SupportUseCase{
		logger:        logger,
		tickets:       tickets,
		users:         users,
		profiles:      profiles,
		notifications: notifications,
		activity:      activity,
		now:           time.Now,
	}
}

// identity returns the account email and display name of a user.
func (uc *SupportUseCase) identity(ctx context.Context, userID uuid.UUID) (string, string, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	name := ""
	if profile, err := uc.profiles.GetByUserID(ctx, userID); err == nil {
		name = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	}
	if name == "" {
		name = user.Email
	}
	return user.Email, name, nil
}

func (uc *SupportUseCase) CreateTicket(ctx context.Context, params CreateTicketParams) (*model.SupportTicket, error) {
	fields := map[string]string{}
	subject := strings.TrimSpace(params.Subject)
	description := strings.TrimSpace(params.Description)
	if len(subject) < 3 {
		fields["subject"] = "Subject is required and should be at least 3 characters"
	}
	if len(description) < 10 {
		fields["description"] = "Description is required and should be at least 10 characters"
	}

	category := entity.TicketGeneral
	if params.Category != "" {
		category = entity.TicketCategory(params.Category)
		if !category.Valid() {
			fields["category"] = "Category must be one of: order_issue, plant_care, technical, general, complaint"
		}
	}
	priority := entity.PriorityMedium
	if params.Priority != "" {
		priority = entity.TicketPriority(params.Priority)
		if !priority.Valid() {
			fields["priority"] = "Priority must be one of: low, medium, high, urgent"
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	ticket := &model.SupportTicket{
		OrderID:     params.OrderID,
		Subject:     subject,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      entity.TicketOpen,
	}

	if entity.Allow(params.CallerRole, entity.CapManageSupport) {
		switch {
		case params.UserID != nil:
			email, name, err := uc.identity(ctx, *params.UserID)
			if err != nil {
				return nil, err
			}
			ticket.UserID = params.UserID
			ticket.CustomerEmail, ticket.CustomerName = email, name
		case params.CustomerEmail != "" && strings.TrimSpace(params.CustomerName) != "":
			email := NormalizeEmail(params.CustomerEmail)
			if !IsValidEmail(email) {
				return nil, apperrors.Validation(map[string]string{"customer_email": "Valid customer email is required"})
			}
			ticket.CustomerEmail, ticket.CustomerName = email, strings.TrimSpace(params.CustomerName)
		default:
			return nil, apperrors.InvalidArgument("Admin must provide user_id or customer_email & customer_name")
		}
		ticket.AssignedTo = params.AssignedTo
	} else {
		email, name, err := uc.identity(ctx, params.CallerID)
		if err != nil {
			return nil, err
		}
		callerID := params.CallerID
		ticket.UserID = &callerID
		ticket.CustomerEmail, ticket.CustomerName = email, name
	}

	number, err := GenerateTicketNumber(uc.now())
	if err != nil {
		return nil, err
	}
	ticket.TicketNumber = number

	if err := uc.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	uc.notifications.Send(ctx, Notification{
		Kind:    entity.NotifyTicketCreated,
		To:      []string{ticket.CustomerEmail},
		Subject: fmt.Sprintf("Support Ticket Created - %s", ticket.TicketNumber),
		Data:    ticketData(ticket),
	})
	uc.logger.Info("Support ticket created",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("ticket_number", ticket.TicketNumber))
	return ticket, nil
}

// MyTickets includes guest tickets opened under the caller's email.
func (uc *SupportUseCase) MyTickets(ctx context.Context, userID uuid.UUID) ([]*model.SupportTicket, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.tickets.ListByUser(ctx, userID, user.Email)
}

func (uc *SupportUseCase) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]*model.SupportTicket, entity.PaginationMeta, error) {
	filter.Validate()
	tickets, total, err := uc.tickets.List(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return tickets, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

// UpdateTicket applies admin edits and notifies the account holder.
func (uc *SupportUseCase) UpdateTicket(ctx context.Context, actorID, id uuid.UUID, params UpdateTicketParams) (*model.SupportTicket, error) {
	update := repository.TicketUpdate{AssignedTo: params.AssignedTo}
	fields := map[string]string{}
	if params.Status != "" {
		status := entity.TicketStatus(params.Status)
		if !status.Valid() {
			fields["status"] = "Invalid status. Allowed: open, in_progress, resolved, closed"
		}
		update.Status = &status
	}
	if params.Priority != "" {
		priority := entity.TicketPriority(params.Priority)
		if !priority.Valid() {
			fields["priority"] = "Invalid priority. Allowed: low, medium, high, urgent"
		}
		update.Priority = &priority
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	ticket, err := uc.tickets.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if ticket.UserID != nil {
		if user, err := uc.users.GetByID(ctx, *ticket.UserID); err == nil {
			uc.notifications.Send(ctx, Notification{
				Kind:    entity.NotifyTicketUpdated,
				To:      []string{user.Email},
				Subject: fmt.Sprintf("Update on Your Support Ticket - %s", ticket.TicketNumber),
				Data:    ticketData(ticket),
			})
		}
	}

	uc.activity.Record(ctx, ActivityEntry{
		UserID:     &actorID,
		ActionType: entity.ActivityTicketUpdate,
		EntityType: "support_ticket",
		EntityID:   id.String(),
		Details:    map[string]interface{}{"status": params.Status, "priority": params.Priority},
	})
	return ticket, nil
}

func ticketData(t *model.SupportTicket) map[string]interface{} {
	return map[string]interface{}{
		"ticketNumber": t.TicketNumber,
		"subject":      t.Subject,
		"priority":     t.Priority,
		"status":       t.Status,
		"name":         t.CustomerName,
	}
}
