package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/services/cache"
)

const checkTimeout = 2 * time.Second

// Get handles health check requests
// @Summary      Health check
// @Description  Report service health, database connectivity, cache and session counts
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Failure      503 {object} types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			BaseResponse: types.BaseResponse{Status: "healthy"},
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Services:     map[string]any{},
		}
		if deps != nil {
			response.Version = deps.Version
		}

		db := getDatabaseStatus(c.Request.Context(), deps)
		response.Services["database"] = db
		if deps != nil {
			if sp, ok := deps.Cache.(cache.StatsProvider); ok {
				response.Services["cache"] = sp.Stats()
			}
		}
		if deps != nil && deps.SessionManager != nil {
			response.Services["sessions"] = gin.H{"open": deps.SessionManager.Len()}
		}

		code := http.StatusOK
		if db["status"] == "error" {
			response.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(ctx context.Context, deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured", "connected": false}
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := deps.DB.HealthCheck(ctx); err != nil {
		return gin.H{"status": "error", "connected": false, "error": err.Error()}
	}

	return gin.H{"status": "connected", "connected": true}
}
