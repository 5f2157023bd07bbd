package types

import (
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/internal/database"
	"github.com/killallgit/paperreel-api/internal/services/annotations"
	"github.com/killallgit/paperreel-api/internal/services/cache"
	"github.com/killallgit/paperreel-api/internal/services/documents"
	"github.com/killallgit/paperreel-api/internal/services/sessions"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	Cache             cache.Cache
	DocumentService   documents.Service
	AnnotationService annotations.Service
	SessionManager    *sessions.Manager
	Logger            *zap.Logger
	Version           string
}

// Log returns the configured logger, or a no-op logger.
func (d *Dependencies) Log() *zap.Logger {
	if d == nil || d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
