package sessions

import (
	"sync"
	"time"

	"github.com/killallgit/paperreel-api/internal/mapping"
	"github.com/killallgit/paperreel-api/internal/models"
)

// Session is one authoring session over a document. All access to the
// editor goes through the session's lock, so operations never interleave.
type Session struct {
	ID        string
	DOI       string
	CreatedAt time.Time

	mu        sync.Mutex
	editor    *mapping.Editor
	lastUsed  time.Time
	savedRev  uint64
	lastSaved *time.Time
}

// TimeRange is the pending video range of a session.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// View is a point-in-time copy of a session's state.
type View struct {
	ID             string              `json:"id"`
	DOI            string              `json:"doi"`
	State          mapping.State       `json:"state"`
	SelectedBlocks []int               `json:"selectedBlocks"`
	TimeRange      *TimeRange          `json:"timeRange,omitempty"`
	PendingWords   *models.SyncWords   `json:"pendingWords,omitempty"`
	Dirty          bool                `json:"dirty"`
	Annotations    *models.Annotations `json:"annotations"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastUsed       time.Time           `json:"lastUsed"`
	LastSaved      *time.Time          `json:"lastSaved,omitempty"`
}

// view must be called with s.mu held.
func (s *Session) view() *View {
	v := &View{
		ID:             s.ID,
		DOI:            s.DOI,
		State:          s.editor.State(),
		SelectedBlocks: s.editor.SelectedBlocks(),
		Dirty:          s.dirty(),
		Annotations:    s.editor.Graph().Snapshot(),
		CreatedAt:      s.CreatedAt,
		LastUsed:       s.lastUsed,
		LastSaved:      s.lastSaved,
	}
	if v.SelectedBlocks == nil {
		v.SelectedBlocks = []int{}
	}
	if start, end, ok := s.editor.TimeRange(); ok {
		v.TimeRange = &TimeRange{Start: start, End: end}
	}
	if v.State.Mode == mapping.ModeHighlightingWords {
		words := s.editor.PendingWords()
		v.PendingWords = &words
	}
	return v
}

func (s *Session) dirty() bool {
	return s.editor.Graph().Revision() != s.savedRev
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}
