package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/paperreel-api/api/types"
)

// Get handles version requests
// @Summary      Service version
// @Tags         health
// @Produce      json
// @Success      200 {object} object{name=string,version=string,description=string,status=string}
// @Router       / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := "dev"
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "PaperReel API",
			"version":     version,
			"description": "Map regions of scholarly papers to explainer video clips",
			"status":      "running",
		})
	}
}
