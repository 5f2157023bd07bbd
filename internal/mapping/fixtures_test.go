package mapping

import "github.com/killallgit/paperreel-api/internal/models"

// testBlocks is a two-column, three-page layout:
//
//	page 0: 0 Title, 1 Paragraph, 2 Paragraph (left) | 3 Paragraph (right)
//	page 1: 4 Figure, 5 Paragraph (left)             | 6 Margin, 7 Paragraph (right)
//	page 2: 8 Paragraph
func testBlocks() []models.Block {
	return []models.Block{
		{ID: 0, Page: 0, Top: 0.05, Left: 0.1, Width: 0.8, Height: 0.04, Type: models.BlockTypeTitle, Section: "Title"},
		{ID: 1, Page: 0, Top: 0.10, Left: 0.1, Width: 0.35, Height: 0.2, Type: models.BlockTypeParagraph, Section: "Introduction"},
		{ID: 2, Page: 0, Top: 0.40, Left: 0.1, Width: 0.35, Height: 0.3, Type: models.BlockTypeParagraph, Section: "Introduction"},
		{ID: 3, Page: 0, Top: 0.10, Left: 0.55, Width: 0.35, Height: 0.6, Type: models.BlockTypeParagraph, Section: "Method"},
		{ID: 4, Page: 1, Top: 0.05, Left: 0.1, Width: 0.35, Height: 0.2, Type: models.BlockTypeFigure, Section: "Method"},
		{ID: 5, Page: 1, Top: 0.30, Left: 0.1, Width: 0.35, Height: 0.4, Type: models.BlockTypeParagraph, Section: "Method"},
		{ID: 6, Page: 1, Top: 0.02, Left: 0.55, Width: 0.35, Height: 0.03, Type: models.BlockTypeMargin, Section: "Method"},
		{ID: 7, Page: 1, Top: 0.50, Left: 0.55, Width: 0.35, Height: 0.3, Type: models.BlockTypeParagraph, Section: "Results"},
		{ID: 8, Page: 2, Top: 0.10, Left: 0.1, Width: 0.35, Height: 0.3, Type: models.BlockTypeParagraph, Section: "Results"},
	}
}

func testCaptions() []models.Caption {
	return models.NumberCaptions([]models.Caption{
		{Caption: "hello and welcome", Start: 5, End: 9},
		{Caption: "today we present", Start: 9, End: 15},
		{Caption: "our new method", Start: 19, End: 25},
		{Caption: "which works well", Start: 20, End: 30},
	})
}

func newTestGraph() *Graph {
	return NewGraph(NewAnalyzer(testBlocks()), testCaptions(), nil)
}

func block(id int) models.Block {
	for _, b := range testBlocks() {
		if b.ID == id {
			return b
		}
	}
	panic("unknown test block")
}
