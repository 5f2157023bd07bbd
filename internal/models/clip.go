package models

import "slices"

// CaptionWordRef points at one word inside a caption line.
type CaptionWordRef struct {
	Caption int `json:"caption"`
	Index   int `json:"index"`
}

// SyncWords aligns a subset of document tokens with a subset of caption
// words inside one clip.
type SyncWords struct {
	ClipID     int              `json:"clipId"`
	TokenIDs   []TokenRef       `json:"tokenIds"`
	CaptionIDs []CaptionWordRef `json:"captionIds"`
}

// Complete reports whether both sides of the alignment are populated.
func (s SyncWords) Complete() bool {
	return len(s.TokenIDs) > 0 && len(s.CaptionIDs) > 0
}

// Clone returns a deep copy.
func (s SyncWords) Clone() SyncWords {
	s.TokenIDs = slices.Clone(s.TokenIDs)
	s.CaptionIDs = slices.Clone(s.CaptionIDs)
	return s
}

// Clip is a time-bounded video segment mapped to one or more highlights.
type Clip struct {
	ID            int       `json:"id"`
	Start         float64   `json:"start"` // seconds
	End           float64   `json:"end"`   // seconds
	Highlights    []int     `json:"highlights"`
	Position      int       `json:"position"`
	Top           float64   `json:"top"`
	Page          int       `json:"page"`
	Captions      []Caption `json:"captions"`
	Note          string    `json:"note"`
	Supplementary bool      `json:"supplementary"`
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return c.End - c.Start
}

// Contains reports whether t falls inside [Start, End).
func (c Clip) Contains(t float64) bool {
	return t >= c.Start && t < c.End
}

// Anchor returns the highlight id at Position, if any.
func (c Clip) Anchor() (int, bool) {
	if c.Position < 0 || c.Position >= len(c.Highlights) {
		return 0, false
	}
	return c.Highlights[c.Position], true
}

// Clone returns a deep copy.
func (c Clip) Clone() Clip {
	c.Highlights = slices.Clone(c.Highlights)
	c.Captions = slices.Clone(c.Captions)
	return c
}
