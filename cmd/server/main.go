package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	handlers "github.com/wekeepgrowing/nursery-backend/internal/adapter/handler/http"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/cache"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/nursery-backend/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/nursery-backend/internal/infrastructure/http"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/mail"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/provider"
	"github.com/wekeepgrowing/nursery-backend/internal/usecase"
	"github.com/wekeepgrowing/nursery-backend/internal/worker"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
	"github.com/wekeepgrowing/nursery-backend/pkg/messaging"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments use the environment directly
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
	zapLogger = zapLogger.With(zap.String("service", cfg.Service.Name))

	db, err := database.NewConnection(context.Background(), &cfg.Database, zapLogger, !cfg.IsProduction())
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	rdb, err := cache.NewRedisClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	bus := messaging.NewRedisBus(rdb)
	repos := database.NewRepositories(db, rdb, cfg, zapLogger)
	gateways := provider.NewFactory(&cfg.Payment, zapLogger)
	usecases := usecase.SetupUseCases(zapLogger, cfg, repos, bus, gateways)

	renderer, err := mail.NewRenderer(cfg.Email.FromName, cfg.Service.FrontendURL)
	if err != nil {
		zapLogger.Fatal("Failed to parse email templates", zap.Error(err))
	}
	dispatcher := worker.NewDispatcher(repos.Notification, renderer, mail.NewSMTPSender(cfg.Email, zapLogger), bus, cfg.Notification, zapLogger)

	pingDB := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	pingRedis := func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		worker.RunSessionSweeper(ctx, usecases.Session, cfg.Session.SweepInterval, zapLogger)
	}()

	httpSrv := httpServer.NewServer(cfg, zapLogger, usecases, map[string]handlers.HealthCheck{
		"database": pingDB,
		"redis":    pingRedis,
	})
	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	var grpcSrv *grpcServer.Server
	if cfg.Server.GRPC.Enabled {
		grpcSrv = grpcServer.NewServer(cfg.Server.GRPC, zapLogger, map[string]grpcServer.Check{
			"database": pingDB,
			"redis":    pingRedis,
		}, !cfg.IsProduction())
		go grpcSrv.Watch(ctx)
		go func() {
			if err := grpcSrv.Start(); err != nil {
				zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zapLogger.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.Stop()
	}

	cancel()
	wg.Wait()

	zapLogger.Info("Server shut down successfully")
}
