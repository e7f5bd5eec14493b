package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"gorm.io/datatypes"
)

// ActivityLog records logins, admin actions, and state changes.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ActionType string         `gorm:"size:64;not null;index" json:"action_type"`
	EntityType *string        `gorm:"size:64" json:"entity_type,omitempty"`
	EntityID   *string        `gorm:"size:64" json:"entity_id,omitempty"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress  *string        `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent  *string        `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `gorm:"default:now();index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// NotificationOutbox is a pending email, drained by the dispatcher.
type NotificationOutbox struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Kind          entity.NotificationKind     `gorm:"size:64;not null" json:"kind"`
	Recipients    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"recipients"`
	Subject       string                      `gorm:"size:255;not null" json:"subject"`
	Payload       datatypes.JSON              `gorm:"type:jsonb" json:"payload,omitempty"`
	Status        entity.NotificationStatus   `gorm:"size:16;not null;default:'pending';index:idx_outbox_due,priority:1" json:"status"`
	Attempts      int                         `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt time.Time                   `gorm:"not null;default:now();index:idx_outbox_due,priority:2" json:"next_attempt_at"`
	LastError     *string                     `json:"last_error,omitempty"`
	SentAt        *time.Time                  `json:"sent_at,omitempty"`
	CreatedAt     time.Time                   `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"default:now()" json:"updated_at"`
}

func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
