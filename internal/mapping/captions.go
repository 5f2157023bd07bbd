package mapping

import "github.com/killallgit/paperreel-api/internal/models"

// FilterCaptions returns the captions that overlap [start, end): a caption
// is kept when it starts inside [start, end) or ends inside (start, end].
// The result is never nil.
func FilterCaptions(captions []models.Caption, start, end float64) []models.Caption {
	out := make([]models.Caption, 0)
	for _, c := range captions {
		startsInside := c.Start >= start && c.Start < end
		endsInside := c.End > start && c.End <= end
		if startsInside || endsInside {
			out = append(out, c)
		}
	}
	return out
}

// filterSegmentsByCaptions drops caption word references that point outside
// the allowed captions. A segment is dropped only once it has no caption
// references left.
func filterSegmentsByCaptions(segments []models.SyncWords, captions []models.Caption) []models.SyncWords {
	allowed := make(map[int]struct{}, len(captions))
	for _, c := range captions {
		allowed[c.ID] = struct{}{}
	}

	out := make([]models.SyncWords, 0, len(segments))
	for _, seg := range segments {
		kept := seg.CaptionIDs[:0:0]
		for _, ref := range seg.CaptionIDs {
			if _, ok := allowed[ref.Caption]; ok {
				kept = append(kept, ref)
			}
		}
		if len(kept) == 0 {
			continue
		}
		seg.CaptionIDs = kept
		out = append(out, seg)
	}
	return out
}

// filterSegmentsByBlock drops token references into the removed block. A
// segment is dropped only once it has no token references left.
func filterSegmentsByBlock(segments []models.SyncWords, blockID int) []models.SyncWords {
	out := make([]models.SyncWords, 0, len(segments))
	for _, seg := range segments {
		kept := seg.TokenIDs[:0:0]
		for _, ref := range seg.TokenIDs {
			if ref.Block != blockID {
				kept = append(kept, ref)
			}
		}
		if len(kept) == 0 {
			continue
		}
		seg.TokenIDs = kept
		out = append(out, seg)
	}
	return out
}
