package annotations

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/paperreel-api/api/types"
)

// RegisterLegacyRoutes registers the annotation routes read and written by
// the authoring UI. Extra handlers (rate limiting) run before the save.
func RegisterLegacyRoutes(router *gin.RouterGroup, deps *types.Dependencies, saveMiddleware ...gin.HandlerFunc) {
	router.GET("/annotation/*doi", GetAnnotations(deps))
	router.POST("/save_annotations", append(saveMiddleware, SaveAnnotations(deps))...)
}

// RegisterRoutes registers annotation routes under /api/v1/annotations
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.DELETE("/*doi", DeleteAnnotations(deps))
}
