package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/storage"
	"github.com/pageza/cookbook/backend/internal/web"
)

// SetupRouter configures the engine, its middleware and the application routes.
// Images are served from disk when the store is a LocalStore.
func SetupRouter(cfg *config.Config, deps api.Dependencies, images storage.ImageStore) (*gin.Engine, error) {
	router := gin.New()

	tmpl, err := web.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	// multipart bodies beyond this spill to temp files
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.AuthMiddleware(deps.Auth))

	if local, ok := images.(*storage.LocalStore); ok {
		router.StaticFS(storage.MediaURLPrefix, http.Dir(local.Root()))
	}

	api.RegisterRoutes(router, deps)

	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, "not_found", "The page you requested was not found.")
	})

	return router, nil
}
