// Package api holds the HTTP handlers. Every page answers HTML or JSON
// depending on the Accept header.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

// Dependencies are the services the handlers are built from. Redis and the
// limiters may be nil.
type Dependencies struct {
	DB            *gorm.DB
	Redis         redis.Cmdable
	Auth          service.IAuthService
	Recipes       service.IRecipeService
	Collections   service.ICollectionService
	CreateLimiter *middleware.RateLimiter
	ModifyLimiter *middleware.RateLimiter
	Log           *logger.Logger
}

// RegisterRoutes registers all routes
func RegisterRoutes(r gin.IRouter, deps Dependencies) {
	health := HealthCheck(deps.DB, deps.Redis)
	r.GET("/health", health)
	r.GET("/api/health", health)

	NewAuthHandler(deps.Auth, deps.Log.With("handler", "auth")).RegisterRoutes(r)
	NewRecipeHandler(deps.Recipes, deps.CreateLimiter, deps.ModifyLimiter, deps.Log.With("handler", "recipes")).RegisterRoutes(r)
	NewCollectionHandler(deps.Collections, deps.Recipes, deps.Log.With("handler", "collections")).RegisterRoutes(r)
	NewRateLimitHandler(deps.CreateLimiter, deps.ModifyLimiter, deps.Log.With("handler", "rate_limits")).RegisterRoutes(r)
}
