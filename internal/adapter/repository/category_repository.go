package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCategoryRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CategoryRepository {
	return &categoryRepository{db: db, logger: logger}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	query := r.db.WithContext(ctx).Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []*model.Category
	if err := query.Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Model(category).Omit("created_at").Select("*").Updates(category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count category products: %w", err)
	}
	return count, nil
}
