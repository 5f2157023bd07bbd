package documents

import (
	"context"

	"github.com/killallgit/paperreel-api/internal/models"
)

// Repository defines the interface for document data access
type Repository interface {
	// Documents
	UpsertDocument(ctx context.Context, doi, title string) (*models.Document, error)
	GetDocument(ctx context.Context, doi string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// Blocks, ordered by block id
	ReplaceBlocks(ctx context.Context, doi string, blocks []models.Block) error
	GetBlocks(ctx context.Context, doi string) ([]models.Block, error)

	// Captions, in load order
	ReplaceCaptions(ctx context.Context, doi string, captions []models.Caption) error
	GetCaptions(ctx context.Context, doi string) ([]models.Caption, error)
}

// Service defines the interface for document business logic
type Service interface {
	// LoadBlocks returns the document's layout blocks.
	LoadBlocks(ctx context.Context, doi string) ([]models.Block, error)
	// LoadCaptions returns the video captions with id equal to position.
	LoadCaptions(ctx context.Context, doi string) ([]models.Caption, error)

	ImportBlocks(ctx context.Context, doi, title string, blocks []models.Block) error
	ImportCaptions(ctx context.Context, doi string, captions []models.Caption) error

	// ListDocuments returns the known documents in natural DOI order.
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// PDFPath and VideoPath resolve the document's media files.
	PDFPath(doi string) (string, error)
	VideoPath(doi string) (string, error)
}
