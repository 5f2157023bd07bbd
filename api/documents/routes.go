package documents

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/paperreel-api/api/types"
)

// RegisterLegacyRoutes registers the file-style routes read by the authoring
// UI. DOIs contain slashes, so each route captures the rest of the path.
func RegisterLegacyRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/blocks/*doi", GetBlocks(deps))
	router.GET("/captions/*doi", GetCaptions(deps))
	router.GET("/pdf/*doi", GetPDF(deps))
	router.GET("/clips/*doi", GetVideo(deps))
}

// RegisterRoutes registers document routes under /api/v1/documents
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", ListDocuments(deps))
	router.POST("", ImportDocument(deps))
	router.GET("/playback/*doi", GetPlayback(deps))
}
