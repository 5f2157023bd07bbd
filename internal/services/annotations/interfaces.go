package annotations

import (
	"context"

	"github.com/killallgit/paperreel-api/internal/models"
)

// Repository defines the interface for annotation snapshot storage
type Repository interface {
	// GetSnapshot returns the stored graph of a document, or
	// ErrSnapshotNotFound when nothing was saved yet.
	GetSnapshot(ctx context.Context, doi string) (*models.AnnotationSnapshot, error)

	// SaveSnapshot inserts or replaces the document's graph.
	SaveSnapshot(ctx context.Context, snapshot *models.AnnotationSnapshot) error

	DeleteSnapshot(ctx context.Context, doi string) error
}

// Service defines the interface for loading and saving annotation graphs
type Service interface {
	// Load returns the saved graph, or an empty one when the document has
	// never been saved.
	Load(ctx context.Context, doi string) (*models.Annotations, error)

	// Save validates and persists the graph. Only one save per document
	// may be in flight; a concurrent attempt fails with SAVE_IN_PROGRESS.
	Save(ctx context.Context, doi string, ann *models.Annotations) (*SaveResult, error)

	Delete(ctx context.Context, doi string) error
}
