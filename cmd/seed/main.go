// Command seed loads the bundled food catalog into PostgreSQL. Foods already
// present by name are left untouched, so it is safe to run repeatedly.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/nutriscan/backend/config"
	"github.com/nutriscan/backend/internal/infrastructure/persistence/postgres"
	"github.com/nutriscan/backend/internal/logger"
	"github.com/nutriscan/backend/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if cfg.Database.Driver != "postgres" {
		zl.Warn("database driver is not postgres; the in-memory catalog is seeded at server start",
			zap.String("driver", cfg.Database.Driver))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := postgres.Open(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, zl)
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}

	result, err := seed.Run(ctx, postgres.NewFoodRepository(db), zl)
	if err != nil {
		zl.Fatal("seeding failed", zap.Error(err))
	}
	zl.Info("done", zap.Int("inserted", result.Inserted), zap.Int("skipped", result.Skipped))
}
