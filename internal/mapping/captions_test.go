package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/killallgit/paperreel-api/internal/models"
)

func TestFilterCaptions(t *testing.T) {
	captions := []models.Caption{
		{ID: 0, Start: 5, End: 9},
		{ID: 1, Start: 9, End: 15},
		{ID: 2, Start: 19, End: 25},
		{ID: 3, Start: 20, End: 30},
	}

	t.Run("keeps captions straddling either boundary", func(t *testing.T) {
		got := FilterCaptions(captions, 10, 20)
		assert.Equal(t, []models.Caption{captions[1], captions[2]}, got)
	})

	t.Run("caption ending exactly at window start is excluded", func(t *testing.T) {
		got := FilterCaptions(captions, 9, 10)
		assert.Equal(t, []models.Caption{captions[1]}, got)
	})

	t.Run("caption enclosing the window is excluded", func(t *testing.T) {
		got := FilterCaptions(captions, 21, 24)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterCaptions(nil, 0, 100))
	})
}
