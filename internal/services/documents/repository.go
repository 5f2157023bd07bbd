package documents

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/killallgit/paperreel-api/internal/models"
)

// ErrDocumentNotFound is returned when no document has the requested DOI
var ErrDocumentNotFound = errors.New("document not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new document repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// UpsertDocument creates the document or updates its title
func (r *RepositoryImpl) UpsertDocument(ctx context.Context, doi, title string) (*models.Document, error) {
	doc := models.Document{DOI: doi, Title: title}
	assignments := []string{"updated_at"}
	if title != "" {
		assignments = append(assignments, "title")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doi"}},
		DoUpdates: clause.AssignmentColumns(assignments),
	}).Create(&doc).Error
	if err != nil {
		return nil, fmt.Errorf("upserting document: %w", err)
	}
	return r.GetDocument(ctx, doi)
}

// GetDocument retrieves a document by DOI
func (r *RepositoryImpl) GetDocument(ctx context.Context, doi string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).Where("doi = ?", doi).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns all documents
func (r *RepositoryImpl) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := r.db.WithContext(ctx).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// ReplaceBlocks swaps the document's blocks for the given set in one transaction
func (r *RepositoryImpl) ReplaceBlocks(ctx context.Context, doi string, blocks []models.Block) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doi = ?", doi).Delete(&models.BlockRecord{}).Error; err != nil {
			return fmt.Errorf("deleting blocks: %w", err)
		}
		if len(blocks) == 0 {
			return nil
		}
		records := make([]models.BlockRecord, len(blocks))
		for i, b := range blocks {
			records[i] = models.NewBlockRecord(doi, b)
		}
		if err := tx.CreateInBatches(records, 500).Error; err != nil {
			return fmt.Errorf("creating blocks: %w", err)
		}
		return nil
	})
}

// GetBlocks returns the document's blocks ordered by block id
func (r *RepositoryImpl) GetBlocks(ctx context.Context, doi string) ([]models.Block, error) {
	var records []models.BlockRecord
	if err := r.db.WithContext(ctx).
		Where("doi = ?", doi).
		Order("block_id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting blocks: %w", err)
	}
	blocks := make([]models.Block, len(records))
	for i, rec := range records {
		blocks[i] = rec.ToBlock()
	}
	return blocks, nil
}

// ReplaceCaptions swaps the document's captions for the given list in one transaction
func (r *RepositoryImpl) ReplaceCaptions(ctx context.Context, doi string, captions []models.Caption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doi = ?", doi).Delete(&models.CaptionRecord{}).Error; err != nil {
			return fmt.Errorf("deleting captions: %w", err)
		}
		if len(captions) == 0 {
			return nil
		}
		records := make([]models.CaptionRecord, len(captions))
		for i, c := range captions {
			records[i] = models.CaptionRecord{DOI: doi, Seq: i, Text: c.Caption, Start: c.Start, End: c.End}
		}
		if err := tx.CreateInBatches(records, 500).Error; err != nil {
			return fmt.Errorf("creating captions: %w", err)
		}
		return nil
	})
}

// GetCaptions returns the document's captions in load order
func (r *RepositoryImpl) GetCaptions(ctx context.Context, doi string) ([]models.Caption, error) {
	var records []models.CaptionRecord
	if err := r.db.WithContext(ctx).
		Where("doi = ?", doi).
		Order("seq ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting captions: %w", err)
	}
	captions := make([]models.Caption, len(records))
	for i, rec := range records {
		captions[i] = models.Caption{Caption: rec.Text, Start: rec.Start, End: rec.End}
	}
	return models.NumberCaptions(captions), nil
}
