package types

import "github.com/killallgit/paperreel-api/internal/models"

// SaveAnnotationsRequest is the body of POST /api/save_annotations
type SaveAnnotationsRequest struct {
	DOI          string                     `json:"doi" binding:"required"`
	Highlights   map[int]models.Highlight   `json:"highlights"`
	Clips        map[int]models.Clip        `json:"clips"`
	SyncSegments map[int][]models.SyncWords `json:"syncSegments"`
}

// Annotations returns the graph carried by the request
func (r SaveAnnotationsRequest) Annotations() *models.Annotations {
	ann := &models.Annotations{
		Highlights:   r.Highlights,
		Clips:        r.Clips,
		SyncSegments: r.SyncSegments,
	}
	return ann.Normalize()
}

// ImportDocumentRequest uploads a document's blocks and, optionally, its
// captions
type ImportDocumentRequest struct {
	DOI      string           `json:"doi" binding:"required" example:"10.1145/3313831.3376323"`
	Title    string           `json:"title,omitempty"`
	Blocks   []models.Block   `json:"blocks" binding:"required,min=1,dive"`
	Captions []models.Caption `json:"captions,omitempty" binding:"omitempty,dive"`
}

// OpenSessionRequest starts an authoring session
type OpenSessionRequest struct {
	DOI string `json:"doi" binding:"required" example:"10.1145/3313831.3376323"`
}

// TimeRangeRequest sets a time window in seconds
type TimeRangeRequest struct {
	Start *float64 `json:"start" binding:"required,gte=0" example:"12.5"`
	End   *float64 `json:"end" binding:"required,gte=0" example:"20"`
}

// SelectionRequest selects a mapping; a null clip clears the selection
type SelectionRequest struct {
	Clip *int `json:"clip"`
}

// ModeRequest switches the editor mode
type ModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=idle modify highlight" example:"modify"`
}

// HighlightChangeRequest adds (op 1) or removes (op -1) a block
type HighlightChangeRequest struct {
	Block *int `json:"block" binding:"required"`
	Op    int  `json:"op" binding:"required,oneof=1 -1" example:"1"`
}

// PositionRequest moves a clip's anchor highlight
type PositionRequest struct {
	Highlight *int `json:"highlight" binding:"required"`
}

// NoteRequest sets the selected clip's note
type NoteRequest struct {
	Note string `json:"note"`
}

// SupplementaryRequest sets the selected clip's supplementary flag
type SupplementaryRequest struct {
	Supplementary *bool `json:"supplementary" binding:"required"`
}

// WordsRequest sets the pending word alignment in highlight mode
type WordsRequest struct {
	Tokens []models.TokenRef       `json:"tokens"`
	Words  []models.CaptionWordRef `json:"words"`
}
