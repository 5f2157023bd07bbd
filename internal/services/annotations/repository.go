package annotations

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/killallgit/paperreel-api/internal/models"
)

// ErrSnapshotNotFound is returned when a document has no saved graph.
var ErrSnapshotNotFound = errors.New("annotation snapshot not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new annotation repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// GetSnapshot retrieves the snapshot stored for a DOI
func (r *RepositoryImpl) GetSnapshot(ctx context.Context, doi string) (*models.AnnotationSnapshot, error) {
	var snapshot models.AnnotationSnapshot
	if err := r.db.WithContext(ctx).Where("doi = ?", doi).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("getting annotation snapshot: %w", err)
	}
	return &snapshot, nil
}

// SaveSnapshot upserts the snapshot keyed by DOI
func (r *RepositoryImpl) SaveSnapshot(ctx context.Context, snapshot *models.AnnotationSnapshot) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doi"}},
			DoUpdates: clause.AssignmentColumns([]string{"revision", "highlights", "clips", "sync_segments", "saved_at"}),
		}).Create(snapshot).Error
	})
	if err != nil {
		return fmt.Errorf("saving annotation snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshot removes the snapshot stored for a DOI
func (r *RepositoryImpl) DeleteSnapshot(ctx context.Context, doi string) error {
	result := r.db.WithContext(ctx).Where("doi = ?", doi).Delete(&models.AnnotationSnapshot{})
	if result.Error != nil {
		return fmt.Errorf("deleting annotation snapshot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
