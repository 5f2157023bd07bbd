package mapping

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"github.com/killallgit/paperreel-api/internal/models"
)

// Validate checks the structural invariants of an annotation graph and
// returns every violation found, combined into one error.
func Validate(a *models.Annotations) error {
	var err error

	for _, id := range a.HighlightIDs() {
		h := a.Highlights[id]
		if h.ID != id {
			err = multierr.Append(err, fmt.Errorf("highlight %d: stored under key %d", h.ID, id))
		}
		if len(h.Blocks) == 0 {
			err = multierr.Append(err, fmt.Errorf("highlight %d: no blocks", id))
		}
		if !isStrictlyAscending(h.Blocks) {
			err = multierr.Append(err, fmt.Errorf("highlight %d: blocks not sorted ascending", id))
		}
		if len(h.Rects) != len(h.Blocks) {
			err = multierr.Append(err, fmt.Errorf("highlight %d: %d rects for %d blocks", id, len(h.Rects), len(h.Blocks)))
		}
		c, ok := a.Clips[h.Clip]
		switch {
		case !ok:
			err = multierr.Append(err, fmt.Errorf("highlight %d: clip %d does not exist", id, h.Clip))
		case !slices.Contains(c.Highlights, id):
			err = multierr.Append(err, fmt.Errorf("highlight %d: not listed by clip %d", id, h.Clip))
		}
	}

	for _, id := range a.ClipIDs() {
		c := a.Clips[id]
		if c.ID != id {
			err = multierr.Append(err, fmt.Errorf("clip %d: stored under key %d", c.ID, id))
		}
		if c.Start > c.End {
			err = multierr.Append(err, fmt.Errorf("clip %d: start %.3f after end %.3f", id, c.Start, c.End))
		}
		if len(c.Highlights) == 0 {
			err = multierr.Append(err, fmt.Errorf("clip %d: no highlights", id))
		} else if c.Position < 0 || c.Position >= len(c.Highlights) {
			err = multierr.Append(err, fmt.Errorf("clip %d: position %d out of range", id, c.Position))
		}
		for _, hid := range c.Highlights {
			h, ok := a.Highlights[hid]
			if !ok {
				err = multierr.Append(err, fmt.Errorf("clip %d: highlight %d does not exist", id, hid))
				continue
			}
			if h.Clip != id {
				err = multierr.Append(err, fmt.Errorf("clip %d: highlight %d belongs to clip %d", id, hid, h.Clip))
			}
		}
	}

	for _, clipID := range slices.Sorted(maps.Keys(a.SyncSegments)) {
		if _, ok := a.Clips[clipID]; !ok {
			err = multierr.Append(err, fmt.Errorf("sync segments: clip %d does not exist", clipID))
		}
	}

	return err
}

func isStrictlyAscending(ids []int) bool {
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			return false
		}
	}
	return true
}
