package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/paperreel-api/api/types"
)

// RegisterRoutes registers session routes under /api/v1/sessions. Extra
// handlers (rate limiting) run before the save.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, saveMiddleware ...gin.HandlerFunc) {
	router.POST("", OpenSession(deps))

	session := router.Group("/:id")
	{
		session.GET("", GetSession(deps))
		session.DELETE("", CloseSession(deps))

		session.POST("/blocks/:block/toggle", ToggleBlock(deps))
		session.PUT("/range", SetTimeRange(deps))
		session.POST("/mappings", CreateMapping(deps))
		session.DELETE("/mappings", RemoveMapping(deps))
		session.PUT("/selection", SetSelection(deps))
		session.PUT("/mode", SetMode(deps))

		session.PUT("/clips/:clip/range", ChangeClip(deps))
		session.POST("/clips/:clip/highlights", ChangeHighlight(deps))
		session.PUT("/clips/:clip/position", ChangeClipPosition(deps))
		session.DELETE("/clips/:clip/segments/:index", RemoveSegment(deps))

		session.PUT("/note", SetNote(deps))
		session.PUT("/supplementary", SetSupplementary(deps))
		session.PUT("/words", SelectWords(deps))

		session.POST("/save", append(saveMiddleware, SaveSession(deps))...)
	}
}
