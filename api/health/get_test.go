package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/database"
	"github.com/killallgit/paperreel-api/internal/services/cache"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupDeps      func(t *testing.T) *types.Dependencies
		expectedStatus int
		expectedHealth string
		expectedDB     string
	}{
		{
			name: "healthy with database",
			setupDeps: func(t *testing.T) *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })
				return &types.Dependencies{DB: db, Version: "1.0.0"}
			},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedDB:     "connected",
		},
		{
			name: "healthy without database",
			setupDeps: func(t *testing.T) *types.Dependencies {
				return &types.Dependencies{Version: "1.0.0"}
			},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedDB:     "not configured",
		},
		{
			name: "unhealthy with closed database",
			setupDeps: func(t *testing.T) *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)
				require.NoError(t, db.Close())
				return &types.Dependencies{DB: db, Version: "1.0.0"}
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "unhealthy",
			expectedDB:     "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

			Get(tt.setupDeps(t))(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response types.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedHealth, response.Status)
			assert.Equal(t, "1.0.0", response.Version)

			db, ok := response.Services["database"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.expectedDB, db["status"])
		})
	}
}

func TestGet_ReportsCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mc := cache.NewMemoryCache(1)
	require.NoError(t, mc.Set(context.Background(), "k", []byte("v"), time.Minute))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	Get(&types.Dependencies{Cache: mc})(c)

	var response types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	stats, ok := response.Services["cache"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, stats["sets"])
}
