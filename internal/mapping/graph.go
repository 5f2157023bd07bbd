package mapping

import (
	"cmp"
	"slices"

	"github.com/killallgit/paperreel-api/internal/models"
)

// Block operations accepted by ChangeHighlight.
const (
	OpAddBlock    = 1
	OpRemoveBlock = -1
)

// Change describes the outcome of a graph mutation. Invalid operations are
// never errors: they leave the graph untouched and report Applied=false.
type Change struct {
	Applied     bool `json:"applied"`
	ClipRemoved bool `json:"clipRemoved,omitempty"`
}

// Graph owns the annotation graph of one document. Every mutation runs
// against a private copy that replaces the current snapshot only once the
// whole update has been applied, so highlights, clips and sync segments
// are always observed together.
//
// Graph is not safe for concurrent use; callers serialize access.
type Graph struct {
	analyzer *Analyzer
	captions []models.Caption
	current  *models.Annotations
	revision uint64
}

// NewGraph creates a graph over the document's blocks and captions,
// starting from initial (nil means empty).
func NewGraph(analyzer *Analyzer, captions []models.Caption, initial *models.Annotations) *Graph {
	if initial == nil {
		initial = models.NewAnnotations()
	}
	return &Graph{
		analyzer: analyzer,
		captions: slices.Clone(captions),
		current:  initial.Clone().Normalize(),
	}
}

// Analyzer returns the block analyzer the graph was built with.
func (g *Graph) Analyzer() *Analyzer {
	return g.analyzer
}

// Captions returns the document's captions.
func (g *Graph) Captions() []models.Caption {
	return slices.Clone(g.captions)
}

// Snapshot returns a deep copy of the current graph.
func (g *Graph) Snapshot() *models.Annotations {
	return g.current.Clone()
}

// Revision counts the mutations committed since the graph was created.
func (g *Graph) Revision() uint64 {
	return g.revision
}

// Clip returns a copy of the clip with the given id.
func (g *Graph) Clip(id int) (models.Clip, bool) {
	c, ok := g.current.Clips[id]
	return c.Clone(), ok
}

// Highlight returns a copy of the highlight with the given id.
func (g *Graph) Highlight(id int) (models.Highlight, bool) {
	h, ok := g.current.Highlights[id]
	return h.Clone(), ok
}

// Segments returns a copy of the clip's sync segments.
func (g *Graph) Segments(clipID int) []models.SyncWords {
	segs := g.current.SyncSegments[clipID]
	out := make([]models.SyncWords, len(segs))
	for i, s := range segs {
		out[i] = s.Clone()
	}
	return out
}

// ClipsAt returns the clips playing at time t, ordered by start then id.
func (g *Graph) ClipsAt(t float64) []models.Clip {
	return ClipsAt(g.current, t)
}

// ClipsAt returns the clips of a stored graph playing at time t.
func ClipsAt(a *models.Annotations, t float64) []models.Clip {
	var out []models.Clip
	for _, c := range a.Clips {
		if c.Contains(t) {
			out = append(out, c.Clone())
		}
	}
	slices.SortFunc(out, func(x, y models.Clip) int {
		return cmp.Or(cmp.Compare(x.Start, y.Start), cmp.Compare(x.ID, y.ID))
	})
	return out
}

// HighlightFor returns the id of the clip's highlight that covers the block.
func (g *Graph) HighlightFor(clipID, blockID int) (int, bool) {
	c, ok := g.current.Clips[clipID]
	if !ok {
		return 0, false
	}
	for _, hid := range c.Highlights {
		if g.current.Highlights[hid].HasBlock(blockID) {
			return hid, true
		}
	}
	return 0, false
}

// apply runs fn on a copy of the graph and commits the copy when fn
// reports success.
func (g *Graph) apply(fn func(next *models.Annotations) bool) bool {
	next := g.current.Clone()
	if !fn(next) {
		return false
	}
	g.current = next
	g.revision++
	return true
}

// CreateMapping builds one highlight per continuous run of the selected
// blocks and a clip over [start, end) that references them. It returns the
// new clip id. The selection must contain at least one known block and the
// range must be non-empty.
func (g *Graph) CreateMapping(blockIDs []int, start, end float64) (int, bool) {
	if start >= end {
		return 0, false
	}
	runs := g.analyzer.SplitBlocks(blockIDs)
	if len(runs) == 0 {
		return 0, false
	}

	var clipID int
	ok := g.apply(func(next *models.Annotations) bool {
		clipID = nextID(next.Clips)

		highlightIDs := make([]int, 0, len(runs))
		for _, run := range runs {
			h := g.analyzer.buildHighlight(next, clipID, run)
			next.Highlights[h.ID] = h
			highlightIDs = append(highlightIDs, h.ID)
		}

		// The scroll anchor is the topmost block of the first run, not of
		// the whole selection: the viewer scrolls to where the mapping
		// starts in reading order, and later runs on other pages must not
		// pull it elsewhere.
		page, top := g.analyzer.anchor(runs[0])
		next.Clips[clipID] = models.Clip{
			ID:         clipID,
			Start:      start,
			End:        end,
			Highlights: highlightIDs,
			Position:   0,
			Top:        top,
			Page:       page,
			Captions:   FilterCaptions(g.captions, start, end),
		}
		next.SyncSegments[clipID] = []models.SyncWords{}
		return true
	})
	return clipID, ok
}

// RemoveMapping deletes the clip, its highlights and its sync segments.
func (g *Graph) RemoveMapping(clipID int) bool {
	return g.apply(func(next *models.Annotations) bool {
		c, ok := next.Clips[clipID]
		if !ok {
			return false
		}
		for _, hid := range c.Highlights {
			delete(next.Highlights, hid)
		}
		delete(next.Clips, clipID)
		delete(next.SyncSegments, clipID)
		return true
	})
}

// ChangeClip moves the clip's time window, refreshes its caption cache and
// drops word alignments whose captions fell out of the window.
func (g *Graph) ChangeClip(clipID int, start, end float64) bool {
	if start > end {
		return false
	}
	return g.apply(func(next *models.Annotations) bool {
		c, ok := next.Clips[clipID]
		if !ok {
			return false
		}
		c.Start, c.End = start, end
		c.Captions = FilterCaptions(g.captions, start, end)
		next.Clips[clipID] = c
		if segs, ok := next.SyncSegments[clipID]; ok {
			next.SyncSegments[clipID] = filterSegmentsByCaptions(segs, c.Captions)
		}
		return true
	})
}

// ChangeHighlight adds (OpAddBlock) or removes (OpRemoveBlock) a block from
// the clip's highlights.
//
// Adding merges the block into the first highlight of the clip it is
// continuous with, or appends a new single-block highlight. Removing
// deletes emptied highlights, and deletes the clip with its sync segments
// once it has no highlights left.
func (g *Graph) ChangeHighlight(clipID, blockID, op int) Change {
	var change Change
	switch op {
	case OpAddBlock:
		change.Applied = g.apply(func(next *models.Annotations) bool {
			return g.addBlock(next, clipID, blockID)
		})
	case OpRemoveBlock:
		change.Applied = g.apply(func(next *models.Annotations) bool {
			var ok bool
			ok, change.ClipRemoved = g.removeBlock(next, clipID, blockID)
			return ok
		})
	}
	return change
}

func (g *Graph) addBlock(next *models.Annotations, clipID, blockID int) bool {
	block, ok := g.analyzer.Block(blockID)
	if !ok {
		return false
	}
	c, ok := next.Clips[clipID]
	if !ok {
		return false
	}
	for _, hid := range c.Highlights {
		if next.Highlights[hid].HasBlock(blockID) {
			return false
		}
	}

	for _, hid := range c.Highlights {
		h, ok := next.Highlights[hid]
		if !ok || !g.analyzer.continuousWith(h.Blocks, block) {
			continue
		}
		h = g.analyzer.withBlocks(h, []int{blockID})
		next.Highlights[hid] = g.analyzer.deriveSection(h)
		return true
	}

	h := g.analyzer.buildHighlight(next, clipID, []int{blockID})
	next.Highlights[h.ID] = h
	c.Highlights = append(c.Highlights, h.ID)
	next.Clips[clipID] = c
	return true
}

func (g *Graph) removeBlock(next *models.Annotations, clipID, blockID int) (applied, clipRemoved bool) {
	c, ok := next.Clips[clipID]
	if !ok {
		return false, false
	}
	idx := slices.IndexFunc(c.Highlights, func(hid int) bool {
		return next.Highlights[hid].HasBlock(blockID)
	})
	if idx < 0 {
		return false, false
	}

	hid := c.Highlights[idx]
	h := withoutBlock(next.Highlights[hid], blockID)

	// Token references are pruned only while the highlight survives. An
	// emptied highlight leaves the clip's sync segments as they were.
	if len(h.Blocks) > 0 {
		next.Highlights[hid] = g.analyzer.deriveSection(h)
		if segs, ok := next.SyncSegments[clipID]; ok {
			next.SyncSegments[clipID] = filterSegmentsByBlock(segs, blockID)
		}
		return true, false
	}

	delete(next.Highlights, hid)
	c.Highlights = slices.Delete(c.Highlights, idx, idx+1)
	if len(c.Highlights) == 0 {
		delete(next.Clips, clipID)
		delete(next.SyncSegments, clipID)
		return true, true
	}

	switch {
	case idx == c.Position:
		c.Position = 0
	case idx < c.Position:
		c.Position--
	}
	if c.Position >= len(c.Highlights) {
		c.Position = 0
	}
	next.Clips[clipID] = c
	return true, false
}

// ChangeClipPosition points the clip's anchor at one of its highlights.
// It is a no-op when the highlight does not belong to the clip.
func (g *Graph) ChangeClipPosition(clipID, highlightID int) bool {
	return g.apply(func(next *models.Annotations) bool {
		c, ok := next.Clips[clipID]
		if !ok {
			return false
		}
		idx := slices.Index(c.Highlights, highlightID)
		if idx < 0 {
			return false
		}
		c.Position = idx
		next.Clips[clipID] = c
		return true
	})
}

// SetNote replaces the clip's note.
func (g *Graph) SetNote(clipID int, note string) bool {
	return g.apply(func(next *models.Annotations) bool {
		c, ok := next.Clips[clipID]
		if !ok {
			return false
		}
		c.Note = note
		next.Clips[clipID] = c
		return true
	})
}

// SetSupplementary sets the clip's supplementary flag.
func (g *Graph) SetSupplementary(clipID int, supplementary bool) bool {
	return g.apply(func(next *models.Annotations) bool {
		c, ok := next.Clips[clipID]
		if !ok {
			return false
		}
		c.Supplementary = supplementary
		next.Clips[clipID] = c
		return true
	})
}

// RemoveSegment deletes the sync segment at index.
func (g *Graph) RemoveSegment(clipID, index int) bool {
	return g.apply(func(next *models.Annotations) bool {
		segs, ok := next.SyncSegments[clipID]
		if !ok || index < 0 || index >= len(segs) {
			return false
		}
		next.SyncSegments[clipID] = slices.Delete(segs, index, index+1)
		return true
	})
}

// AppendSegment adds a word alignment to the clip. Alignments missing
// either tokens or caption words are rejected.
func (g *Graph) AppendSegment(clipID int, words models.SyncWords) bool {
	if !words.Complete() {
		return false
	}
	return g.apply(func(next *models.Annotations) bool {
		if _, ok := next.Clips[clipID]; !ok {
			return false
		}
		words = words.Clone()
		words.ClipID = clipID
		next.SyncSegments[clipID] = append(next.SyncSegments[clipID], words)
		return true
	})
}
