package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"gorm.io/gorm"
)

type supportTicketRepository struct {
	db *gorm.DB
}

func NewSupportTicketRepository(db *gorm.DB) domainRepo.SupportTicketRepository {
	return &supportTicketRepository{db: db}
}

func (r *supportTicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}

func (r *supportTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error) {
	var ticket model.SupportTicket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get support ticket: %w", err)
	}
	return &ticket, nil
}

// ListByUser also returns guest tickets opened with the account's email.
func (r *supportTicketRepository) ListByUser(ctx context.Context, userID uuid.UUID, email string) ([]*model.SupportTicket, error) {
	var tickets []*model.SupportTicket
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR (user_id IS NULL AND lower(customer_email) = lower(?))", userID, email).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user tickets: %w", err)
	}
	return tickets, nil
}

func (r *supportTicketRepository) List(ctx context.Context, filter domainRepo.TicketFilter) ([]*model.SupportTicket, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.SupportTicket{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("subject ILIKE ? OR ticket_number ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ?", p, p, p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var tickets []*model.SupportTicket
	if err := paginate(query, filter.PaginationParams).Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, total, nil
}

func (r *supportTicketRepository) Update(ctx context.Context, id uuid.UUID, update domainRepo.TicketUpdate) (*model.SupportTicket, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if update.Status != nil {
		updates["status"] = *update.Status
		if *update.Status == entity.TicketResolved || *update.Status == entity.TicketClosed {
			updates["resolved_at"] = time.Now()
		}
	}
	if update.Priority != nil {
		updates["priority"] = *update.Priority
	}
	if update.AssignedTo != nil {
		updates["assigned_to"] = *update.AssignedTo
	}

	result := r.db.WithContext(ctx).Model(&model.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainErrors.ErrTicketNotFound
	}
	return r.GetByID(ctx, id)
}
