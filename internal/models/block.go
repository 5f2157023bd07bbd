package models

// Block type names emitted by the layout detector. The set is open; only
// BlockTypeParagraph has special meaning for highlight continuity.
const (
	BlockTypeParagraph = "Paragraph"
	BlockTypeMargin    = "Margin"
	BlockTypeTitle     = "Title"
	BlockTypeFigure    = "Figure"
	BlockTypeCaption   = "Caption"
	BlockTypeTable     = "Table"
)

// RightColumnLeft is the normalized left offset at which a block is
// considered part of the right column of a two-column page.
const RightColumnLeft = 0.5

// Block is a detected layout region of a document page. Geometry is
// normalized to 0..1 within the page. Blocks are immutable once loaded.
type Block struct {
	ID      int     `json:"id" binding:"gte=0"`
	Page    int     `json:"page" binding:"gte=0"`
	Top     float64 `json:"top" binding:"gte=0,lte=1"`
	Left    float64 `json:"left" binding:"gte=0,lte=1"`
	Width   float64 `json:"width" binding:"gte=0,lte=1"`
	Height  float64 `json:"height" binding:"gte=0,lte=1"`
	Type    string  `json:"type" binding:"required"`
	Section string  `json:"section,omitempty"`
}

// Column returns 0 for the left column and 1 for the right column.
func (b Block) Column() int {
	if b.Left >= RightColumnLeft {
		return 1
	}
	return 0
}

// Rect returns the bounding box of the block.
func (b Block) Rect() Rect {
	return Rect{
		Page:   b.Page,
		Top:    b.Top,
		Left:   b.Left,
		Width:  b.Width,
		Height: b.Height,
	}
}

// Rect is a bounding box on a page, in the same normalized space as Block.
type Rect struct {
	Page   int     `json:"page"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
