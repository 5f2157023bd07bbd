package models

import "slices"

// HighlightTypeText is the only highlight type produced by the editor.
const HighlightTypeText = "text"

// TokenRef points at one token inside a block.
type TokenRef struct {
	Block int `json:"block"`
	Index int `json:"index"`
}

// Highlight is a visually contiguous annotation over one or more blocks.
//
// Blocks is kept sorted ascending and Rects is aligned with it, one box per
// block. A highlight never exists with an empty block set.
type Highlight struct {
	ID      int        `json:"id"`
	Type    string     `json:"type"`
	Rects   []Rect     `json:"rects"`
	Clip    int        `json:"clip"`
	Section string     `json:"section,omitempty"`
	Blocks  []int      `json:"blocks"`
	Tokens  []TokenRef `json:"tokens,omitempty"`
}

// HasBlock reports whether the highlight covers the block.
func (h Highlight) HasBlock(blockID int) bool {
	_, found := slices.BinarySearch(h.Blocks, blockID)
	return found
}

// Clone returns a deep copy.
func (h Highlight) Clone() Highlight {
	h.Rects = slices.Clone(h.Rects)
	h.Blocks = slices.Clone(h.Blocks)
	h.Tokens = slices.Clone(h.Tokens)
	return h
}
