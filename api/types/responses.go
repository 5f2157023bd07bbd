package types

import (
	"time"

	"github.com/killallgit/paperreel-api/internal/mapping"
	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/annotations"
	"github.com/killallgit/paperreel-api/internal/services/sessions"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`   // Error code
	Details any    `json:"details,omitempty"` // Additional error details
}

// LegacySaveResponse is the body of a successful POST /api/save_annotations
type LegacySaveResponse struct {
	Message int `json:"message" example:"200"`
}

// LegacyErrorResponse is the failure body of the /api endpoints
type LegacyErrorResponse struct {
	Error string `json:"error"`
}

// DocumentSummary is one entry of a document listing
type DocumentSummary struct {
	DOI       string    `json:"doi"`
	Title     string    `json:"title,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocumentsResponse lists known documents
type DocumentsResponse struct {
	BaseResponse
	Documents []DocumentSummary `json:"documents"`
	Count     int               `json:"count"`
}

// ImportResponse reports what a document import stored
type ImportResponse struct {
	BaseResponse
	DOI      string `json:"doi"`
	Blocks   int    `json:"blocks"`
	Captions int    `json:"captions"`
}

// PlayingClip is a clip active at the requested time with its highlights
// in playback order.
type PlayingClip struct {
	Clip       models.Clip        `json:"clip"`
	Highlights []models.Highlight `json:"highlights"`
	Anchor     *int               `json:"anchor,omitempty"`
}

// PlaybackResponse answers which clips play at a given video time
type PlaybackResponse struct {
	BaseResponse
	DOI   string        `json:"doi"`
	Time  float64       `json:"time"`
	Clips []PlayingClip `json:"clips"`
}

// SessionResponse wraps a session view
type SessionResponse struct {
	BaseResponse
	Session *sessions.View `json:"session"`
}

// ChangeResponse reports whether an editor operation was applied. Rejected
// operations are not errors; the session is returned unchanged.
type ChangeResponse struct {
	BaseResponse
	Applied     bool           `json:"applied"`
	ClipRemoved bool           `json:"clipRemoved,omitempty"`
	ClipID      *int           `json:"clipId,omitempty"`
	Session     *sessions.View `json:"session"`
}

// SaveResponse reports a stored snapshot
type SaveResponse struct {
	BaseResponse
	Result *annotations.SaveResult `json:"result"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version   string         `json:"version,omitempty"`
	Timestamp string         `json:"timestamp"`
	Services  map[string]any `json:"services,omitempty"`
}

// NewChangeResponse builds a ChangeResponse from an editor change.
func NewChangeResponse(view *sessions.View, change mapping.Change) ChangeResponse {
	return ChangeResponse{
		BaseResponse: BaseResponse{Status: StatusOK},
		Applied:      change.Applied,
		ClipRemoved:  change.ClipRemoved,
		Session:      view,
	}
}
