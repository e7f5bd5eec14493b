package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

type TicketFilter struct {
	entity.PaginationParams
	Status     *entity.TicketStatus
	Priority   *entity.TicketPriority
	Category   *entity.TicketCategory
	AssignedTo *uuid.UUID
	Search     string
}

// TicketUpdate holds admin edits; nil fields are left untouched.
type TicketUpdate struct {
	Status     *entity.TicketStatus
	Priority   *entity.TicketPriority
	AssignedTo *uuid.UUID
}

type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *model.SupportTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SupportTicket, error)
	ListByUser(ctx context.Context, userID uuid.UUID, email string) ([]*model.SupportTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]*model.SupportTicket, int64, error)
	Update(ctx context.Context, id uuid.UUID, update TicketUpdate) (*model.SupportTicket, error)
}

type ReviewFilter struct {
	entity.PaginationParams
	IsApproved *bool
	ProductID  *uuid.UUID
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.ProductReview) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductReview, error)
	Exists(ctx context.Context, userID, productID, orderID uuid.UUID) (bool, error)
	// HasDeliveredPurchase reports whether orderID is a delivered order of userID containing productID.
	HasDeliveredPurchase(ctx context.Context, userID, productID, orderID uuid.UUID) (bool, error)
	ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]*model.ProductReview, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.ProductReview, error)
	List(ctx context.Context, filter ReviewFilter) ([]*model.ProductReview, int64, error)
	// SetApproved updates the flag and recomputes the product rating in one transaction.
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*model.ProductReview, error)
}

type ContentFilter struct {
	entity.PaginationParams
	Search        string
	Category      string
	PublishedOnly bool
}

type ContentRepository interface {
	CreatePost(ctx context.Context, post *model.BlogPost) error
	GetPost(ctx context.Context, id uuid.UUID) (*model.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	UpdatePost(ctx context.Context, post *model.BlogPost) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, filter ContentFilter) ([]*model.BlogPost, int64, error)

	CreateGuide(ctx context.Context, guide *model.PlantCareGuide) error
	GetGuide(ctx context.Context, id uuid.UUID) (*model.PlantCareGuide, error)
	GetGuideBySlug(ctx context.Context, slug string) (*model.PlantCareGuide, error)
	UpdateGuide(ctx context.Context, guide *model.PlantCareGuide) error
	DeleteGuide(ctx context.Context, id uuid.UUID) error
	// ListGuides filters by plant_type through ContentFilter.Category.
	ListGuides(ctx context.Context, filter ContentFilter) ([]*model.PlantCareGuide, int64, error)
}
