package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/nursery-backend/internal/domain/errors"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
	"github.com/wekeepgrowing/nursery-backend/internal/domain/repository"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/cache"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/database"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
	"github.com/wekeepgrowing/nursery-backend/pkg/messaging"
	"go.uber.org/zap"
)

// seed loads categories and products from a YAML fixture through the catalog
// use case, so starting stock is booked as inventory movements. Existing slugs
// and SKUs are skipped.
func main() {
	path := flag.String("file", "db/seed/catalog.yaml", "YAML fixture to load")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	fixture, err := loadFixture(*path)
	if err != nil {
		zapLogger.Fatal("Failed to load fixture", zap.String("file", *path), zap.Error(err))
	}

	gdb, err := database.NewConnection(context.Background(), &cfg.Database, zapLogger, false)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(gdb, zapLogger)

	if err := database.Migrate(gdb, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	rdb, err := cache.NewRedisClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	repos := database.NewRepositories(gdb, rdb, cfg, zapLogger)
	usecases := usecase.SetupUseCases(zapLogger, cfg, repos, messaging.NewRedisBus(rdb), provider.NewFactory(&cfg.Payment, zapLogger))

	ctx := context.Background()
	s := &seeder{repos: repos, catalog: usecases.Catalog, logger: zapLogger}

	actorID, err := s.superAdmin(ctx, fixture.SuperAdmin)
	if err != nil {
		zapLogger.Fatal("Failed to seed super admin", zap.Error(err))
	}
	if err := s.categories(ctx, fixture.Categories); err != nil {
		zapLogger.Fatal("Failed to seed categories", zap.Error(err))
	}
	if err := s.products(ctx, actorID, fixture.Products); err != nil {
		zapLogger.Fatal("Failed to seed products", zap.Error(err))
	}
	zapLogger.Info("Seed completed",
		zap.Int("categories", len(fixture.Categories)),
		zap.Int("products", len(fixture.Products)))
}

type seeder struct {
	repos   *repository.Repositories
	catalog *usecase.CatalogUseCase
	logger  *zap.Logger
}

// superAdmin returns the id of the fixture's super admin, creating it when absent.
func (s *seeder) superAdmin(ctx context.Context, f *AdminFixture) (uuid.UUID, error) {
	if f == nil || f.Email == "" {
		return uuid.Nil, errors.New("super_admin.email is required")
	}
	email := usecase.NormalizeEmail(f.Email)

	existing, err := s.repos.User.GetByEmail(ctx, email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domainErrors.ErrUserNotFound) {
		return uuid.Nil, err
	}

	hash, err := usecase.HashPassword(f.Password)
	if err != nil {
		return uuid.Nil, err
	}
	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleSuperAdmin,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("Super admin created", zap.String("email", email))
	return user.ID, nil
}

func (s *seeder) categories(ctx context.Context, fixtures []CategoryFixture) error {
	for _, f := range fixtures {
		slug := f.Slug
		if slug == "" {
			slug = usecase.Slugify(f.Name)
		}
		if _, err := s.repos.Category.GetBySlug(ctx, slug); err == nil {
			s.logger.Debug("Category exists, skipping", zap.String("slug", slug))
			continue
		} else if !errors.Is(err, domainErrors.ErrCategoryNotFound) {
			return err
		}

		params := usecase.CategoryParams{
			Name:         f.Name,
			Slug:         slug,
			Description:  f.Description,
			ImageURL:     f.ImageURL,
			DisplayOrder: f.DisplayOrder,
		}
		if f.Parent != "" {
			parent, err := s.repos.Category.GetBySlug(ctx, f.Parent)
			if err != nil {
				return err
			}
			params.ParentID = &parent.ID
		}
		if _, err := s.catalog.CreateCategory(ctx, params); err != nil {
			return err
		}
		s.logger.Info("Category created", zap.String("slug", slug))
	}
	return nil
}

func (s *seeder) products(ctx context.Context, actorID uuid.UUID, fixtures []ProductFixture) error {
	for _, f := range fixtures {
		if _, err := s.repos.Product.GetBySKU(ctx, f.SKU); err == nil {
			s.logger.Debug("Product exists, skipping", zap.String("sku", f.SKU))
			continue
		} else if !errors.Is(err, domainErrors.ErrProductNotFound) {
			return err
		}

		category, err := s.repos.Category.GetBySlug(ctx, f.Category)
		if err != nil {
			return err
		}
		price, compare, err := f.prices()
		if err != nil {
			return err
		}

		product, err := s.catalog.CreateProduct(ctx, actorID, usecase.CreateProductParams{
			SKU:               f.SKU,
			Name:              f.Name,
			Slug:              f.Slug,
			Description:       f.Description,
			BotanicalName:     f.BotanicalName,
			Price:             price,
			ComparePrice:      compare,
			StockQuantity:     f.Stock,
			MinStockThreshold: f.MinStockThreshold,
			MaxStockThreshold: f.MaxStockThreshold,
			ReorderQuantity:   f.ReorderQuantity,
			CategoryID:        category.ID,
			CareLevel:         f.CareLevel,
			LightRequirement:  f.LightRequirement,
			WaterRequirement:  f.WaterRequirement,
			ImageURL:          f.ImageURL,
			IsFeatured:        f.Featured,
		})
		if err != nil {
			return err
		}
		s.logger.Info("Product created", zap.String("sku", product.SKU), zap.Int("stock", product.StockQuantity))
	}
	return nil
}
