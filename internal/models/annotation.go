package models

import (
	"maps"
	"slices"
)

// Annotations is the annotation graph of one document: highlights and
// clips keyed by id, and sync segments keyed by clip id. The JSON form is
// the wire and storage format; integer keys travel as strings.
type Annotations struct {
	Highlights   map[int]Highlight   `json:"highlights"`
	Clips        map[int]Clip        `json:"clips"`
	SyncSegments map[int][]SyncWords `json:"syncSegments"`
}

// NewAnnotations returns an empty graph with all maps allocated.
func NewAnnotations() *Annotations {
	return &Annotations{
		Highlights:   make(map[int]Highlight),
		Clips:        make(map[int]Clip),
		SyncSegments: make(map[int][]SyncWords),
	}
}

// Normalize allocates any nil map, which happens after decoding a payload
// that omits a field.
func (a *Annotations) Normalize() *Annotations {
	if a.Highlights == nil {
		a.Highlights = make(map[int]Highlight)
	}
	if a.Clips == nil {
		a.Clips = make(map[int]Clip)
	}
	if a.SyncSegments == nil {
		a.SyncSegments = make(map[int][]SyncWords)
	}
	return a
}

// Clone returns a deep copy of the graph.
func (a *Annotations) Clone() *Annotations {
	out := NewAnnotations()
	for id, h := range a.Highlights {
		out.Highlights[id] = h.Clone()
	}
	for id, c := range a.Clips {
		out.Clips[id] = c.Clone()
	}
	for id, segs := range a.SyncSegments {
		cloned := make([]SyncWords, len(segs))
		for i, s := range segs {
			cloned[i] = s.Clone()
		}
		out.SyncSegments[id] = cloned
	}
	return out
}

// ClipIDs returns the clip ids in ascending order.
func (a *Annotations) ClipIDs() []int {
	return slices.Sorted(maps.Keys(a.Clips))
}

// HighlightIDs returns the highlight ids in ascending order.
func (a *Annotations) HighlightIDs() []int {
	return slices.Sorted(maps.Keys(a.Highlights))
}
