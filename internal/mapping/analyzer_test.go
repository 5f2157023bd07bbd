package mapping

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzer_IsContinuous(t *testing.T) {
	analyzer := NewAnalyzer(testBlocks())

	tests := []struct {
		name string
		a, b int
		want bool
	}{
		{name: "same page always continuous", a: 1, b: 3, want: true},
		{name: "same page with paragraph between", a: 0, b: 3, want: true},
		{name: "figure between pages", a: 3, b: 5, want: true},
		{name: "paragraph in right column between", a: 2, b: 4, want: false},
		{name: "paragraph between across pages", a: 3, b: 7, want: false},
		{name: "nothing between", a: 7, b: 8, want: true},
		{name: "argument order does not matter", a: 8, b: 7, want: true},
		{name: "paragraph and margin between", a: 5, b: 8, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.IsContinuous(block(tt.a), block(tt.b)))
		})
	}
}

func TestAnalyzer_SamePageAlwaysContinuous(t *testing.T) {
	blocks := testBlocks()
	analyzer := NewAnalyzer(blocks)

	for _, a := range blocks {
		for _, b := range blocks {
			if a.Page == b.Page {
				assert.True(t, analyzer.IsContinuous(a, b), "blocks %d and %d", a.ID, b.ID)
			}
		}
	}
}

func TestAnalyzer_Sort(t *testing.T) {
	analyzer := NewAnalyzer(testBlocks())

	t.Run("column aware reading order", func(t *testing.T) {
		assert.Equal(t, []int{2, 3, 4, 5, 6, 7}, analyzer.Sort([]int{7, 6, 5, 4, 3, 2}))
	})

	t.Run("right column after left column on same page", func(t *testing.T) {
		// block 6 sits higher on the page than 5 but in the right column
		assert.Equal(t, []int{5, 6}, analyzer.Sort([]int{6, 5}))
	})

	t.Run("drops unknown and duplicate ids", func(t *testing.T) {
		assert.Equal(t, []int{1, 8}, analyzer.Sort([]int{8, 42, 1, 8}))
	})
}

func TestAnalyzer_SplitBlocks(t *testing.T) {
	analyzer := NewAnalyzer(testBlocks())

	tests := []struct {
		name     string
		selected []int
		want     [][]int
	}{
		{name: "single block", selected: []int{5}, want: [][]int{{5}}},
		{name: "same page run", selected: []int{3, 1, 2}, want: [][]int{{1, 2, 3}}},
		{name: "figure does not break run", selected: []int{8, 3, 5, 1}, want: [][]int{{1, 3, 5}, {8}}},
		{name: "paragraph breaks run", selected: []int{2, 4}, want: [][]int{{2}, {4}}},
		{name: "empty selection", selected: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.SplitBlocks(tt.selected))
		})
	}
}

func TestAnalyzer_SplitBlocksReproducesSelection(t *testing.T) {
	analyzer := NewAnalyzer(testBlocks())
	selections := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8},
		{8, 0},
		{2, 4, 6, 8},
		{7, 3, 1},
	}

	for _, selected := range selections {
		runs := analyzer.SplitBlocks(selected)
		assert.NotEmpty(t, runs)
		assert.Equal(t, analyzer.Sort(selected), slices.Concat(runs...))
	}
}
