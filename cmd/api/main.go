package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/router"
	"github.com/pageza/cookbook/backend/internal/server"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/storage"
	"github.com/pageza/cookbook/backend/migrations"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.RunMigrations(db, migrations.FS, appLog); err != nil {
		appLog.Fatal("Failed to run migrations", "error", err)
	}

	// rate limiting is skipped when Redis is not configured or unreachable
	var rdb redis.Cmdable
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			appLog.Warn("Redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer client.Close()
			rdb = client
		}
	}

	images, err := storage.New(ctx, cfg)
	if err != nil {
		appLog.Fatal("Failed to initialize image storage", "error", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, images, appLog, cfg.MaxUploadBytes)
	collectionService := service.NewCollectionService(db, appLog)

	deps := api.Dependencies{
		DB:            db,
		Redis:         rdb,
		Auth:          authService,
		Recipes:       recipeService,
		Collections:   collectionService,
		CreateLimiter: middleware.NewRecipeCreationRateLimiter(rdb, cfg.RateLimitCreatePerHour, appLog),
		ModifyLimiter: middleware.NewRecipeModificationRateLimiter(rdb, cfg.RateLimitModifyPerHour, appLog),
		Log:           appLog,
	}

	engine, err := router.SetupRouter(cfg, deps, images)
	if err != nil {
		appLog.Fatal("Failed to build router", "error", err)
	}

	appLog.Info("Starting server", "addr", cfg.Addr(), "storage", cfg.StorageBackend, "rate_limiting", rdb != nil)
	if err := server.New(cfg.Addr(), engine, appLog).Run(ctx); err != nil {
		appLog.Fatal("Server error", "error", err)
	}
}
