package sessions

import (
	"context"

	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/annotations"
)

// DocumentLoader provides the read-only inputs of a session
type DocumentLoader interface {
	LoadBlocks(ctx context.Context, doi string) ([]models.Block, error)
	LoadCaptions(ctx context.Context, doi string) ([]models.Caption, error)
}

// AnnotationStore loads and persists annotation graphs
type AnnotationStore interface {
	Load(ctx context.Context, doi string) (*models.Annotations, error)
	Save(ctx context.Context, doi string, ann *models.Annotations) (*annotations.SaveResult, error)
}
