package models

// Caption is one transcript line of the explainer video. ID is assigned at
// load time and equals the caption's position in the transcript.
type Caption struct {
	ID      int     `json:"id"`
	Caption string  `json:"caption"`
	Start   float64 `json:"start" binding:"gte=0"`        // seconds
	End     float64 `json:"end" binding:"gtefield=Start"` // seconds
}

// Duration returns the caption length in seconds.
func (c Caption) Duration() float64 {
	return c.End - c.Start
}

// NumberCaptions assigns sequential ids in load order.
func NumberCaptions(captions []Caption) []Caption {
	for i := range captions {
		captions[i].ID = i
	}
	return captions
}
