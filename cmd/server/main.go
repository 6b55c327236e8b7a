package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nutriscan/backend/config"
	httpDelivery "github.com/nutriscan/backend/internal/delivery/http"
	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/infrastructure/cache"
	"github.com/nutriscan/backend/internal/infrastructure/chat"
	"github.com/nutriscan/backend/internal/infrastructure/persistence/memory"
	"github.com/nutriscan/backend/internal/infrastructure/persistence/postgres"
	"github.com/nutriscan/backend/internal/infrastructure/realtime"
	"github.com/nutriscan/backend/internal/infrastructure/recognition"
	"github.com/nutriscan/backend/internal/infrastructure/security"
	"github.com/nutriscan/backend/internal/infrastructure/storage"
	"github.com/nutriscan/backend/internal/logger"
	"github.com/nutriscan/backend/internal/seed"
	"github.com/nutriscan/backend/internal/usecase"
)

const version = "1.0.0"

// repositories groups the storage backends chosen by config
type repositories struct {
	foods domain.FoodCatalog
	meals domain.MealRepository
	users domain.UserRepository
	water domain.WaterRepository
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("starting NutriScan backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Type))

	repos, err := openRepositories(cfg, zl)
	if err != nil {
		return err
	}

	if cfg.Database.Seed || cfg.Database.Driver == "memory" {
		if _, err := seed.Run(ctx, repos.foods, zl); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	recognitionCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	recognizer, err := newRecognizer(ctx, cfg, zl)
	if err != nil {
		return err
	}

	images, uploadsDir, err := newImageStore(ctx, cfg, zl)
	if err != nil {
		return err
	}

	chatClient, closeChat, err := newChatClient(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeChat()

	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	hub := realtime.NewHub(zl)
	defer hub.Close()

	// Initialize usecase layer
	services := httpDelivery.Services{
		Auth:  usecase.NewAuthService(repos.users, hasher, tokens, zl),
		Users: usecase.NewUserService(repos.users, hasher, zl),
		Meals: usecase.NewMealService(repos.meals, repos.foods, hub, zl),
		Water: usecase.NewWaterService(repos.water, hub, zl),
		Foods: usecase.NewFoodService(repos.foods, recognizer, images, recognitionCache, usecase.FoodServiceConfig{
			CacheTTL:      cfg.Cache.TTL,
			MaxImageBytes: cfg.Storage.MaxUploadBytes,
			MinMatchScore: cfg.Recognition.MinMatchScore,
		}, zl),
		Recommender: usecase.NewDietRecommender(repos.foods, zl),
		Chat:        usecase.NewChatService(chatClient, zl),
		Hub:         hub,
	}

	handler := httpDelivery.NewHandler(services, cfg.Storage.MaxUploadBytes, zl)
	router := httpDelivery.SetupRouter(cfg, handler, httpDelivery.RouterOptions{
		UploadsDir: uploadsDir,
		Logger:     zl,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// websocket connections are hijacked and not tracked by Shutdown
	hub.Close()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(cfg *config.Config, zl *zap.Logger) (*repositories, error) {
	if cfg.Database.Driver != "postgres" {
		zl.Warn("using in-memory storage; data is lost on restart")
		return &repositories{
			foods: memory.NewFoodRepository(),
			meals: memory.NewMealRepository(),
			users: memory.NewUserRepository(),
			water: memory.NewWaterRepository(),
		}, nil
	}

	db, err := postgres.Open(postgresConfig(cfg), zl)
	if err != nil {
		return nil, err
	}
	return &repositories{
		foods: postgres.NewFoodRepository(db),
		meals: postgres.NewMealRepository(db),
		users: postgres.NewUserRepository(db),
		water: postgres.NewWaterRepository(db),
	}, nil
}

func postgresConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}
}

func openCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "nutriscan:")
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	return memoryCache, func() { memoryCache.Close() }, nil
}

func newRecognizer(ctx context.Context, cfg *config.Config, zl *zap.Logger) (domain.FoodRecognizer, error) {
	if cfg.Recognition.Provider == "rekognition" {
		return recognition.NewRekognitionRecognizer(ctx, recognition.RekognitionConfig{
			Region:        cfg.Recognition.AWSRegion,
			MinConfidence: float32(cfg.Recognition.MinConfidence),
		}, zl)
	}

	zl.Info("food recognition service configured", zap.String("url", cfg.Recognition.BaseURL))
	return recognition.NewClient(recognition.ClientConfig{
		BaseURL:           cfg.Recognition.BaseURL,
		Timeout:           cfg.Recognition.Timeout,
		RequestsPerMinute: cfg.RateLimit.Recognition,
	}, zl), nil
}

// newImageStore returns the store and, for local storage, the directory to serve
func newImageStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (domain.ImageStore, string, error) {
	if cfg.Storage.Driver == "s3" {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.Storage.S3Bucket,
			Region:        cfg.Storage.S3Region,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		}, zl)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}

	store, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL, zl)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

// newChatClient returns a nil client when no API key is set; the assistant then reports itself unavailable
func newChatClient(ctx context.Context, cfg *config.Config, zl *zap.Logger) (domain.ChatClient, func(), error) {
	noop := func() {}
	if cfg.Chat.APIKey == "" {
		zl.Warn("chat API key not configured; assistant disabled")
		return nil, noop, nil
	}

	if cfg.Chat.Provider == "gemini" {
		client, err := chat.NewGeminiClient(ctx, cfg.Chat.APIKey, cfg.Chat.Model, zl)
		if err != nil {
			return nil, noop, err
		}
		return client, func() { client.Close() }, nil
	}

	return chat.NewOpenRouterClient(chat.OpenRouterConfig{
		APIKey:  cfg.Chat.APIKey,
		BaseURL: cfg.Chat.BaseURL,
		Model:   cfg.Chat.Model,
		Referer: cfg.Chat.Referer,
		Title:   cfg.Chat.Title,
	}, zl), noop, nil
}
