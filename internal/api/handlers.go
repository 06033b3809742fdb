package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/logger"
	"github.com/pageza/cookbook/backend/internal/middleware"
)

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// HealthCheck reports database and redis reachability. Redis is optional, so
// only a database failure makes the service unhealthy.
func HealthCheck(db *gorm.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "healthy", Database: "ok", Redis: "disabled"}
		status := http.StatusOK
		if err := database.HealthCheck(ctx, db); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "error"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			resp.Redis = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				resp.Redis = "error"
			}
		}
		c.JSON(status, resp)
	}
}

type rateLimitStatus struct {
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetTime int64  `json:"reset_time"`
	Window    string `json:"window"`
	RecipeID  string `json:"recipe_id,omitempty"`
}

// RateLimitHandler reports how many recipe submissions the user has left
type RateLimitHandler struct {
	create *middleware.RateLimiter
	modify *middleware.RateLimiter
	log    *logger.Logger
}

func NewRateLimitHandler(create, modify *middleware.RateLimiter, log *logger.Logger) *RateLimitHandler {
	return &RateLimitHandler{create: create, modify: modify, log: log}
}

func (h *RateLimitHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/rate-limits", middleware.RequireAuth())
	{
		g.GET("/recipe-creation", h.RecipeCreation)
		g.GET("/recipe-modification/:id", h.RecipeModification)
	}
}

func (h *RateLimitHandler) RecipeCreation(c *gin.Context) {
	h.report(c, h.create, requester(c).String(), "")
}

func (h *RateLimitHandler) RecipeModification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.report(c, h.modify, requester(c).String()+":"+id.String(), id.String())
}

func (h *RateLimitHandler) report(c *gin.Context, rl *middleware.RateLimiter, subject, recipeID string) {
	if !rl.Enabled() {
		renderError(c, http.StatusNotFound, "not_found", "Rate limiting is disabled.")
		return
	}
	remaining, reset, err := rl.GetRemainingRequests(c.Request.Context(), subject)
	if err != nil {
		h.log.Warn("Rate limit lookup failed", "error", err)
		renderError(c, http.StatusServiceUnavailable, "internal_error", "Rate limit status is unavailable.")
		return
	}
	c.JSON(http.StatusOK, rateLimitStatus{
		Limit:     rl.Limit(),
		Remaining: remaining,
		ResetTime: reset.Unix(),
		Window:    rl.Window().String(),
		RecipeID:  recipeID,
	})
}
