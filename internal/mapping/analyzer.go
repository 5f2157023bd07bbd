// Package mapping implements the highlight/clip mapping engine: block
// continuity analysis, highlight building, caption filtering and the
// annotation graph that keeps highlights, clips and sync segments
// consistent while a document is being authored.
package mapping

import (
	"cmp"
	"slices"

	"github.com/killallgit/paperreel-api/internal/models"
)

// Analyzer answers reading-order and continuity questions over the
// immutable block list of one document.
type Analyzer struct {
	byID  map[int]models.Block
	order []models.Block
}

// NewAnalyzer indexes blocks and precomputes their reading order. Blocks
// with duplicate ids keep the last occurrence.
func NewAnalyzer(blocks []models.Block) *Analyzer {
	byID := make(map[int]models.Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	order := make([]models.Block, 0, len(byID))
	for _, b := range byID {
		order = append(order, b)
	}
	slices.SortFunc(order, compareReading)

	return &Analyzer{byID: byID, order: order}
}

// compareReading orders blocks by page, then column (left column first),
// then top, with the id as a tie breaker.
func compareReading(a, b models.Block) int {
	return cmp.Or(
		cmp.Compare(a.Page, b.Page),
		cmp.Compare(a.Column(), b.Column()),
		cmp.Compare(a.Top, b.Top),
		cmp.Compare(a.ID, b.ID),
	)
}

// Block returns the block with the given id.
func (a *Analyzer) Block(id int) (models.Block, bool) {
	b, ok := a.byID[id]
	return b, ok
}

// Len returns the number of known blocks.
func (a *Analyzer) Len() int {
	return len(a.order)
}

// Blocks returns the blocks in reading order.
func (a *Analyzer) Blocks() []models.Block {
	return slices.Clone(a.order)
}

// Before reports whether x comes strictly before y in reading order.
func (a *Analyzer) Before(x, y models.Block) bool {
	return compareReading(x, y) < 0
}

// IsContinuous reports whether two blocks belong to the same visual flow.
// Blocks on the same page always are. Across pages the span is broken by
// any Paragraph block lying strictly between them in reading order; figures,
// margins, titles and the like may sit in between.
func (a *Analyzer) IsContinuous(x, y models.Block) bool {
	if x.Page == y.Page {
		return true
	}
	if a.Before(y, x) {
		x, y = y, x
	}

	start, _ := slices.BinarySearchFunc(a.order, x, compareReading)
	for _, between := range a.order[start:] {
		if !a.Before(x, between) {
			continue
		}
		if !a.Before(between, y) {
			break
		}
		if between.Type == models.BlockTypeParagraph {
			return false
		}
	}
	return true
}

// Sort returns the known ids among ids, deduplicated and in reading order.
func (a *Analyzer) Sort(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	blocks := make([]models.Block, 0, len(ids))
	for _, id := range ids {
		b, ok := a.byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		blocks = append(blocks, b)
	}
	slices.SortFunc(blocks, compareReading)

	out := make([]int, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

// SplitBlocks groups the selected blocks into maximal runs in which each
// consecutive pair is continuous. The concatenation of the runs is the
// reading-order sorted selection. An empty selection yields no runs.
func (a *Analyzer) SplitBlocks(ids []int) [][]int {
	sorted := a.Sort(ids)
	if len(sorted) == 0 {
		return nil
	}

	runs := [][]int{{sorted[0]}}
	for i := 1; i < len(sorted); i++ {
		prev := a.byID[sorted[i-1]]
		cur := a.byID[sorted[i]]
		if a.IsContinuous(prev, cur) {
			last := len(runs) - 1
			runs[last] = append(runs[last], cur.ID)
			continue
		}
		runs = append(runs, []int{cur.ID})
	}
	return runs
}

// continuousWith reports whether the block can join the set: it must be
// continuous with its nearest neighbour before or after it in reading order.
func (a *Analyzer) continuousWith(set []int, block models.Block) bool {
	var (
		pred, succ       models.Block
		hasPred, hasSucc bool
	)
	for _, id := range set {
		b, ok := a.byID[id]
		if !ok {
			continue
		}
		switch {
		case a.Before(b, block):
			if !hasPred || a.Before(pred, b) {
				pred, hasPred = b, true
			}
		case a.Before(block, b):
			if !hasSucc || a.Before(b, succ) {
				succ, hasSucc = b, true
			}
		}
	}
	return (hasPred && a.IsContinuous(pred, block)) ||
		(hasSucc && a.IsContinuous(block, succ))
}
