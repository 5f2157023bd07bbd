package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/killallgit/paperreel-api/internal/models"
)

func TestValidate(t *testing.T) {
	t.Run("empty graph is valid", func(t *testing.T) {
		assert.NoError(t, Validate(models.NewAnnotations()))
	})

	t.Run("graph built by mutations is valid", func(t *testing.T) {
		g := newTestGraph()
		clipID, _ := g.CreateMapping([]int{1, 2, 8}, 0, 20)
		g.ChangeHighlight(clipID, 3, OpAddBlock)
		g.ChangeHighlight(clipID, 1, OpRemoveBlock)
		g.CreateMapping([]int{5, 7}, 20, 30)
		assert.NoError(t, Validate(g.Snapshot()))
	})

	t.Run("reports every violation", func(t *testing.T) {
		ann := models.NewAnnotations()
		ann.Highlights[0] = models.Highlight{ID: 0, Type: models.HighlightTypeText, Clip: 0, Blocks: []int{3, 1}, Rects: []models.Rect{{}}}
		ann.Highlights[1] = models.Highlight{ID: 1, Type: models.HighlightTypeText, Clip: 5, Blocks: []int{2}, Rects: []models.Rect{{}}}
		ann.Clips[0] = models.Clip{ID: 0, Start: 10, End: 5, Highlights: []int{0, 7}, Position: 4}
		ann.SyncSegments[9] = []models.SyncWords{}

		err := Validate(ann)
		require.Error(t, err)

		errs := multierr.Errors(err)
		assert.Len(t, errs, 7)
		assert.ErrorContains(t, err, "highlight 0: blocks not sorted ascending")
		assert.ErrorContains(t, err, "highlight 0: 1 rects for 2 blocks")
		assert.ErrorContains(t, err, "highlight 1: clip 5 does not exist")
		assert.ErrorContains(t, err, "clip 0: start 10.000 after end 5.000")
		assert.ErrorContains(t, err, "clip 0: position 4 out of range")
		assert.ErrorContains(t, err, "clip 0: highlight 7 does not exist")
		assert.ErrorContains(t, err, "sync segments: clip 9 does not exist")
	})

	t.Run("highlight not listed by its clip", func(t *testing.T) {
		ann := models.NewAnnotations()
		ann.Highlights[0] = models.Highlight{ID: 0, Clip: 0, Blocks: []int{1}, Rects: []models.Rect{{}}}
		ann.Highlights[1] = models.Highlight{ID: 1, Clip: 0, Blocks: []int{2}, Rects: []models.Rect{{}}}
		ann.Clips[0] = models.Clip{ID: 0, Start: 0, End: 5, Highlights: []int{0}}

		err := Validate(ann)
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 1)
		assert.ErrorContains(t, err, "highlight 1: not listed by clip 0")
	})
}
