package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is a paper known to the service, identified by its DOI
type Document struct {
	gorm.Model
	DOI   string `json:"doi" gorm:"uniqueIndex;not null;size:255"`
	Title string `json:"title"`
}

// TableName returns the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// BlockRecord is the stored form of a Block
type BlockRecord struct {
	ID      uint    `gorm:"primaryKey"`
	DOI     string  `gorm:"not null;size:255;uniqueIndex:idx_block_doi_seq"`
	BlockID int     `gorm:"not null;uniqueIndex:idx_block_doi_seq"`
	Page    int     `gorm:"not null"`
	Top     float64 `gorm:"not null"`
	Left    float64 `gorm:"not null"`
	Width   float64 `gorm:"not null"`
	Height  float64 `gorm:"not null"`
	Type    string  `gorm:"size:50"`
	Section string  `gorm:"size:255"`
}

// TableName returns the table name for the BlockRecord model
func (BlockRecord) TableName() string {
	return "blocks"
}

// ToBlock converts the stored row to a Block
func (r BlockRecord) ToBlock() Block {
	return Block{
		ID:      r.BlockID,
		Page:    r.Page,
		Top:     r.Top,
		Left:    r.Left,
		Width:   r.Width,
		Height:  r.Height,
		Type:    r.Type,
		Section: r.Section,
	}
}

// NewBlockRecord converts a Block to its stored row
func NewBlockRecord(doi string, b Block) BlockRecord {
	return BlockRecord{
		DOI:     doi,
		BlockID: b.ID,
		Page:    b.Page,
		Top:     b.Top,
		Left:    b.Left,
		Width:   b.Width,
		Height:  b.Height,
		Type:    b.Type,
		Section: b.Section,
	}
}

// CaptionRecord is the stored form of a Caption. Seq is the load order.
type CaptionRecord struct {
	ID    uint    `gorm:"primaryKey"`
	DOI   string  `gorm:"not null;size:255;uniqueIndex:idx_caption_doi_seq"`
	Seq   int     `gorm:"not null;uniqueIndex:idx_caption_doi_seq"`
	Text  string  `gorm:"type:text"`
	Start float64 `gorm:"not null"`
	End   float64 `gorm:"not null"`
}

// TableName returns the table name for the CaptionRecord model
func (CaptionRecord) TableName() string {
	return "captions"
}

// AnnotationSnapshot stores the whole annotation graph of a document. The
// three maps are kept as JSON columns so the stored layout mirrors the
// in-memory graph.
type AnnotationSnapshot struct {
	ID           uint           `gorm:"primaryKey"`
	DOI          string         `gorm:"uniqueIndex;not null;size:255"`
	Revision     string         `gorm:"size:36;not null"`
	Highlights   datatypes.JSON `gorm:"not null"`
	Clips        datatypes.JSON `gorm:"not null"`
	SyncSegments datatypes.JSON `gorm:"not null"`
	SavedAt      time.Time
}

// TableName returns the table name for the AnnotationSnapshot model
func (AnnotationSnapshot) TableName() string {
	return "annotation_snapshots"
}

// BeforeSave stamps a fresh revision on every write
func (s *AnnotationSnapshot) BeforeSave(tx *gorm.DB) error {
	s.Revision = uuid.New().String()
	return nil
}

// AllModels lists every model that takes part in migrations
func AllModels() []any {
	return []any{
		&Document{},
		&BlockRecord{},
		&CaptionRecord{},
		&AnnotationSnapshot{},
	}
}
