package mapping

import (
	"cmp"
	"maps"
	"slices"

	"github.com/killallgit/paperreel-api/internal/models"
)

// nextID returns max(existing ids)+1, or 0 for an empty map. Ids freed by
// deleting the current maximum are handed out again.
func nextID[V any](m map[int]V) int {
	if len(m) == 0 {
		return 0
	}
	return slices.Max(slices.Collect(maps.Keys(m))) + 1
}

// anchor returns the topmost (page, top) among the run's blocks.
func (a *Analyzer) anchor(run []int) (page int, top float64) {
	first := true
	for _, id := range run {
		b, ok := a.byID[id]
		if !ok {
			continue
		}
		if first || b.Page < page || (b.Page == page && b.Top < top) {
			page, top = b.Page, b.Top
			first = false
		}
	}
	return page, top
}

// buildHighlight creates a highlight for one run of blocks, owned by clipID,
// with the next free id in ann. The section comes from the run's first
// block in reading order.
func (a *Analyzer) buildHighlight(ann *models.Annotations, clipID int, run []int) models.Highlight {
	h := models.Highlight{
		ID:   nextID(ann.Highlights),
		Type: models.HighlightTypeText,
		Clip: clipID,
	}
	if first, ok := a.byID[run[0]]; ok {
		h.Section = first.Section
	}
	h = a.withBlocks(h, run)
	return h
}

// withBlocks adds blocks to the highlight and restores the invariants: block
// ids ascending and unique, with rects aligned. Existing rects are kept for
// blocks that are already present.
func (a *Analyzer) withBlocks(h models.Highlight, added []int) models.Highlight {
	type entry struct {
		id   int
		rect models.Rect
	}

	entries := make([]entry, 0, len(h.Blocks)+len(added))
	seen := make(map[int]struct{}, cap(entries))
	for i, id := range h.Blocks {
		if i < len(h.Rects) {
			entries = append(entries, entry{id, h.Rects[i]})
			seen[id] = struct{}{}
		}
	}
	for _, id := range added {
		if _, dup := seen[id]; dup {
			continue
		}
		b, ok := a.byID[id]
		if !ok {
			continue
		}
		entries = append(entries, entry{id, b.Rect()})
		seen[id] = struct{}{}
	}
	slices.SortFunc(entries, func(x, y entry) int { return cmp.Compare(x.id, y.id) })

	h.Blocks = make([]int, len(entries))
	h.Rects = make([]models.Rect, len(entries))
	for i, e := range entries {
		h.Blocks[i] = e.id
		h.Rects[i] = e.rect
	}
	return h
}

// withoutBlock removes one block and its rect from the highlight.
func withoutBlock(h models.Highlight, blockID int) models.Highlight {
	i, found := slices.BinarySearch(h.Blocks, blockID)
	if !found {
		return h
	}
	h.Blocks = slices.Delete(slices.Clone(h.Blocks), i, i+1)
	if i < len(h.Rects) {
		h.Rects = slices.Delete(slices.Clone(h.Rects), i, i+1)
	}
	return h
}

// deriveSection sets the highlight's section from its first block.
func (a *Analyzer) deriveSection(h models.Highlight) models.Highlight {
	if len(h.Blocks) == 0 {
		return h
	}
	if b, ok := a.byID[h.Blocks[0]]; ok {
		h.Section = b.Section
	}
	return h
}
