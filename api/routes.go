package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/paperreel-api/api/annotations"
	"github.com/killallgit/paperreel-api/api/documents"
	"github.com/killallgit/paperreel-api/api/health"
	"github.com/killallgit/paperreel-api/api/sessions"
	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/api/version"
	_ "github.com/killallgit/paperreel-api/docs/swagger"
)

// RateLimits holds the limiter middleware per endpoint class. A nil entry
// disables limiting for that class.
type RateLimits struct {
	Save    gin.HandlerFunc
	Default gin.HandlerFunc
}

func handlers(hs ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limits RateLimits) error {
	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	// Routes the authoring front end has always used
	legacy := engine.Group("/api", handlers(limits.Default)...)
	documents.RegisterLegacyRoutes(legacy, deps)
	annotations.RegisterLegacyRoutes(legacy, deps, handlers(limits.Save)...)

	v1 := engine.Group("/api/v1", handlers(limits.Default)...)
	documents.RegisterRoutes(v1.Group("/documents"), deps)
	annotations.RegisterRoutes(v1.Group("/annotations"), deps)
	if deps.SessionManager != nil {
		sessions.RegisterRoutes(v1.Group("/sessions"), deps, handlers(limits.Save)...)
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
