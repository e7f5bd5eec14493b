package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BlogPost struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title            string                      `gorm:"size:255;not null" json:"title"`
	Slug             string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content          string                      `gorm:"not null" json:"content"`
	Excerpt          *string                     `json:"excerpt,omitempty"`
	FeaturedImageURL *string                     `gorm:"column:featured_image_url" json:"featured_image_url,omitempty"`
	Category         *string                     `gorm:"size:100;index" json:"category,omitempty"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb;default:'[]'" json:"tags"`
	IsPublished      bool                        `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt      *time.Time                  `json:"published_at,omitempty"`
	AuthorID         *uuid.UUID                  `gorm:"type:uuid" json:"author_id,omitempty"`
	CreatedAt        time.Time                   `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"default:now()" json:"updated_at"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

type PlantCareGuide struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title            string                      `gorm:"size:255;not null" json:"title"`
	Slug             string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content          string                      `gorm:"not null" json:"content"`
	Excerpt          *string                     `json:"excerpt,omitempty"`
	PlantType        *string                     `gorm:"size:100;index" json:"plant_type,omitempty"`
	DifficultyLevel  string                      `gorm:"size:32;not null;default:'beginner'" json:"difficulty_level"`
	FeaturedImageURL *string                     `gorm:"column:featured_image_url" json:"featured_image_url,omitempty"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb;default:'[]'" json:"tags"`
	IsPublished      bool                        `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt      *time.Time                  `json:"published_at,omitempty"`
	AuthorID         *uuid.UUID                  `gorm:"type:uuid" json:"author_id,omitempty"`
	CreatedAt        time.Time                   `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"default:now()" json:"updated_at"`
}

func (PlantCareGuide) TableName() string {
	return "plant_care_guides"
}
