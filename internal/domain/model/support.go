package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
)

// SupportTicket belongs to an account or to a guest identified by email.
type SupportTicket struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TicketNumber  string                `gorm:"size:40;not null;uniqueIndex" json:"ticket_number"`
	UserID        *uuid.UUID            `gorm:"type:uuid;index" json:"user_id,omitempty"`
	OrderID       *uuid.UUID            `gorm:"type:uuid" json:"order_id,omitempty"`
	CustomerEmail string                `gorm:"size:255;not null" json:"customer_email"`
	CustomerName  string                `gorm:"size:200;not null" json:"customer_name"`
	Subject       string                `gorm:"size:255;not null" json:"subject"`
	Description   string                `gorm:"not null" json:"description"`
	Category      entity.TicketCategory `gorm:"size:32;not null;default:'general'" json:"category"`
	Priority      entity.TicketPriority `gorm:"size:16;not null;default:'medium'" json:"priority"`
	Status        entity.TicketStatus   `gorm:"size:16;not null;default:'open';index" json:"status"`
	AssignedTo    *uuid.UUID            `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	ResolvedAt    *time.Time            `json:"resolved_at,omitempty"`
	CreatedAt     time.Time             `gorm:"default:now();index" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"default:now()" json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// ProductReview may only be written for a product in one of the author's delivered orders.
type ProductReview struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product_order" json:"user_id"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_user_product_order" json:"product_id"`
	OrderID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product_order" json:"order_id"`
	Rating             int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Title              *string   `gorm:"size:200" json:"title,omitempty"`
	Comment            *string   `json:"comment,omitempty"`
	IsVerifiedPurchase bool      `gorm:"not null;default:true" json:"is_verified_purchase"`
	IsApproved         bool      `gorm:"not null;default:false;index" json:"is_approved"`
	CreatedAt          time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"default:now()" json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProductReview) TableName() string {
	return "product_reviews"
}
