package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"gorm.io/gorm"
)

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) domainRepo.ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreatePost(ctx context.Context, post *model.BlogPost) error {
	return r.create(ctx, post)
}

func (r *contentRepository) GetPost(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.first(ctx, &post, "id = ?", id, domainErrors.ErrBlogPostNotFound); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *contentRepository) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.first(ctx, &post, "slug = ?", slug, domainErrors.ErrBlogPostNotFound); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *contentRepository) UpdatePost(ctx context.Context, post *model.BlogPost) error {
	return r.save(ctx, post)
}

func (r *contentRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &model.BlogPost{}, id, domainErrors.ErrBlogPostNotFound)
}

func (r *contentRepository) ListPosts(ctx context.Context, filter domainRepo.ContentFilter) ([]*model.BlogPost, int64, error) {
	query := r.filtered(ctx, &model.BlogPost{}, filter, "category")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}
	var posts []*model.BlogPost
	if err := paginate(query, filter.PaginationParams).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, total, nil
}

func (r *contentRepository) CreateGuide(ctx context.Context, guide *model.PlantCareGuide) error {
	return r.create(ctx, guide)
}

func (r *contentRepository) GetGuide(ctx context.Context, id uuid.UUID) (*model.PlantCareGuide, error) {
	var guide model.PlantCareGuide
	if err := r.first(ctx, &guide, "id = ?", id, domainErrors.ErrPlantGuideNotFound); err != nil {
		return nil, err
	}
	return &guide, nil
}

func (r *contentRepository) GetGuideBySlug(ctx context.Context, slug string) (*model.PlantCareGuide, error) {
	var guide model.PlantCareGuide
	if err := r.first(ctx, &guide, "slug = ?", slug, domainErrors.ErrPlantGuideNotFound); err != nil {
		return nil, err
	}
	return &guide, nil
}

func (r *contentRepository) UpdateGuide(ctx context.Context, guide *model.PlantCareGuide) error {
	return r.save(ctx, guide)
}

func (r *contentRepository) DeleteGuide(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, &model.PlantCareGuide{}, id, domainErrors.ErrPlantGuideNotFound)
}

func (r *contentRepository) ListGuides(ctx context.Context, filter domainRepo.ContentFilter) ([]*model.PlantCareGuide, int64, error) {
	query := r.filtered(ctx, &model.PlantCareGuide{}, filter, "plant_type")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count plant guides: %w", err)
	}
	var guides []*model.PlantCareGuide
	if err := paginate(query, filter.PaginationParams).Order("created_at DESC").Find(&guides).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list plant guides: %w", err)
	}
	return guides, total, nil
}

func (r *contentRepository) filtered(ctx context.Context, m interface{}, filter domainRepo.ContentFilter, categoryColumn string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(m)
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.Category != "" {
		query = query.Where(categoryColumn+" = ?", filter.Category)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("title ILIKE ? OR slug ILIKE ? OR excerpt ILIKE ?", p, p, p)
	}
	return query
}

func (r *contentRepository) create(ctx context.Context, value interface{}) error {
	if err := r.db.WithContext(ctx).Create(value).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateContentURL
		}
		return fmt.Errorf("failed to create content: %w", err)
	}
	return nil
}

func (r *contentRepository) save(ctx context.Context, value interface{}) error {
	if err := r.db.WithContext(ctx).Omit("created_at").Save(value).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateContentURL
		}
		return fmt.Errorf("failed to update content: %w", err)
	}
	return nil
}

func (r *contentRepository) first(ctx context.Context, dest interface{}, query string, arg interface{}, notFound error) error {
	if err := r.db.WithContext(ctx).Where(query, arg).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return fmt.Errorf("failed to get content: %w", err)
	}
	return nil
}

func (r *contentRepository) delete(ctx context.Context, m interface{}, id uuid.UUID, notFound error) error {
	result := r.db.WithContext(ctx).Delete(m, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
