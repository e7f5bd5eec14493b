package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/wekeepgrowing/nursery-backend/db"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/database"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
	"go.uber.org/zap"
)

// run-sql applies db/init.sql (views, functions, indexes) to the configured
// database. -file runs another script instead.
func main() {
	file := flag.String("file", "", "SQL script to execute instead of the embedded db/init.sql")
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

	script := db.InitSQL
	source := "db/init.sql (embedded)"
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			zapLogger.Fatal("Failed to read SQL file", zap.String("file", *file), zap.Error(err))
		}
		script = string(raw)
		source = *file
	}

	gdb, err := database.NewConnection(context.Background(), &cfg.Database, zapLogger, false)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(gdb, zapLogger)

	if err := database.ApplySQL(gdb, script); err != nil {
		zapLogger.Fatal("Failed to execute SQL", zap.String("source", source), zap.Error(err))
	}
	zapLogger.Info("SQL executed successfully", zap.String("source", source))
}
