package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	apperrors "github.com/wekeepgrowing/nursery-backend/pkg/errors"
	"go.uber.org/zap"
)

// ContentParams are the shared editable fields of blog posts and care guides. Category is the
// blog category for posts and the plant type for guides.
type ContentParams struct {
	Title            string
	Slug             string
	Content          string
	Excerpt          string
	FeaturedImageURL string
	Category         string
	DifficultyLevel  string
	Tags             []string
	IsPublished      *bool
}

var difficultyLevels = map[string]bool{"beginner": true, "intermediate": true, "advanced": true}

type ContentUseCase struct {
	logger  *zap.Logger
	content repository.ContentRepository
	now     func() time.Time
}

func NewContentUseCase(logger *zap.Logger, content repository.ContentRepository) *ContentUseCase {
	return &ContentUseCase{logger: logger, content: content, now: time.Now}
}

func validateContent(p ContentParams, creating bool) error {
	fields := map[string]string{}
	if creating && strings.TrimSpace(p.Title) == "" {
		fields["title"] = "Title is required"
	}
	if creating && strings.TrimSpace(p.Content) == "" {
		fields["content"] = "Content is required"
	}
	if p.DifficultyLevel != "" && !difficultyLevels[p.DifficultyLevel] {
		fields["difficulty_level"] = "Difficulty must be beginner, intermediate or advanced"
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func contentSlug(p ContentParams) string {
	if p.Slug != "" {
		return Slugify(p.Slug)
	}
	return Slugify(p.Title)
}

// publishState returns the new flag and the published_at stamp for a publish toggle.
func (uc *ContentUseCase) publishState(requested *bool, current bool, publishedAt *time.Time) (bool, *time.Time) {
	if requested == nil {
		return current, publishedAt
	}
	if *requested && publishedAt == nil {
		now := uc.now()
		return true, &now
	}
	return *requested, publishedAt
}

func (uc *ContentUseCase) CreatePost(ctx context.Context, authorID uuid.UUID, p ContentParams) (*model.BlogPost, error) {
	if err := validateContent(p, true); err != nil {
		return nil, err
	}
	post := &model.BlogPost{
		Title:            strings.TrimSpace(p.Title),
		Slug:             contentSlug(p),
		Content:          p.Content,
		Excerpt:          strPtr(p.Excerpt),
		FeaturedImageURL: strPtr(p.FeaturedImageURL),
		Category:         strPtr(p.Category),
		Tags:             nonNilTags(p.Tags),
		AuthorID:         &authorID,
	}
	post.IsPublished, post.PublishedAt = uc.publishState(p.IsPublished, false, nil)
	if err := uc.content.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *ContentUseCase) UpdatePost(ctx context.Context, id uuid.UUID, p ContentParams) (*model.BlogPost, error) {
	if err := validateContent(p, false); err != nil {
		return nil, err
	}
	post, err := uc.content.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != "" {
		post.Title = strings.TrimSpace(p.Title)
	}
	if p.Slug != "" {
		post.Slug = Slugify(p.Slug)
	}
	if p.Content != "" {
		post.Content = p.Content
	}
	if p.Excerpt != "" {
		post.Excerpt = &p.Excerpt
	}
	if p.FeaturedImageURL != "" {
		post.FeaturedImageURL = &p.FeaturedImageURL
	}
	if p.Category != "" {
		post.Category = &p.Category
	}
	if p.Tags != nil {
		post.Tags = p.Tags
	}
	post.IsPublished, post.PublishedAt = uc.publishState(p.IsPublished, post.IsPublished, post.PublishedAt)

	if err := uc.content.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *ContentUseCase) DeletePost(ctx context.Context, id uuid.UUID) error {
	return uc.content.DeletePost(ctx, id)
}

func (uc *ContentUseCase) GetPost(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	return uc.content.GetPost(ctx, id)
}

func (uc *ContentUseCase) ListPosts(ctx context.Context, filter repository.ContentFilter) ([]*model.BlogPost, entity.PaginationMeta, error) {
	filter.Validate()
	posts, total, err := uc.content.ListPosts(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return posts, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

func (uc *ContentUseCase) CreateGuide(ctx context.Context, authorID uuid.UUID, p ContentParams) (*model.PlantCareGuide, error) {
	if err := validateContent(p, true); err != nil {
		return nil, err
	}
	difficulty := p.DifficultyLevel
	if difficulty == "" {
		difficulty = "beginner"
	}
	guide := &model.PlantCareGuide{
		Title:            strings.TrimSpace(p.Title),
		Slug:             contentSlug(p),
		Content:          p.Content,
		Excerpt:          strPtr(p.Excerpt),
		PlantType:        strPtr(p.Category),
		DifficultyLevel:  difficulty,
		FeaturedImageURL: strPtr(p.FeaturedImageURL),
		Tags:             nonNilTags(p.Tags),
		AuthorID:         &authorID,
	}
	guide.IsPublished, guide.PublishedAt = uc.publishState(p.IsPublished, false, nil)
	if err := uc.content.CreateGuide(ctx, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

func (uc *ContentUseCase) UpdateGuide(ctx context.Context, id uuid.UUID, p ContentParams) (*model.PlantCareGuide, error) {
	if err := validateContent(p, false); err != nil {
		return nil, err
	}
	guide, err := uc.content.GetGuide(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != "" {
		guide.Title = strings.TrimSpace(p.Title)
	}
	if p.Slug != "" {
		guide.Slug = Slugify(p.Slug)
	}
	if p.Content != "" {
		guide.Content = p.Content
	}
	if p.Excerpt != "" {
		guide.Excerpt = &p.Excerpt
	}
	if p.FeaturedImageURL != "" {
		guide.FeaturedImageURL = &p.FeaturedImageURL
	}
	if p.Category != "" {
		guide.PlantType = &p.Category
	}
	if p.DifficultyLevel != "" {
		guide.DifficultyLevel = p.DifficultyLevel
	}
	if p.Tags != nil {
		guide.Tags = p.Tags
	}
	guide.IsPublished, guide.PublishedAt = uc.publishState(p.IsPublished, guide.IsPublished, guide.PublishedAt)

	if err := uc.content.UpdateGuide(ctx, guide); err != nil {
		return nil, err
	}
	return guide, nil
}

func (uc *ContentUseCase) DeleteGuide(ctx context.Context, id uuid.UUID) error {
	return uc.content.DeleteGuide(ctx, id)
}

func (uc *ContentUseCase) GetGuide(ctx context.Context, id uuid.UUID) (*model.PlantCareGuide, error) {
	return uc.content.GetGuide(ctx, id)
}

func (uc *ContentUseCase) ListGuides(ctx context.Context, filter repository.ContentFilter) ([]*model.PlantCareGuide, entity.PaginationMeta, error) {
	filter.Validate()
	guides, total, err := uc.content.ListGuides(ctx, filter)
	if err != nil {
		return nil, entity.PaginationMeta{}, err
	}
	return guides, entity.NewPaginationMeta(filter.Page, filter.Limit, total), nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
