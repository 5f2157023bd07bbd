package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVTT(t *testing.T) {
	vttContent := "WEBVTT\r\n" + `
NOTE produced by the recorder
spanning two lines

intro
00:00:00.000 --> 00:00:03.500
<v Speaker>Welcome to the paper.</v>

00:00:03.500 --> 00:00:06.000 align:start
Today we present
<i>our method</i>.

01:06.000 --> 01:10.250
Short form timestamps.`

	parser := NewParser()
	transcript, err := parser.Parse(vttContent, FormatVTT)
	require.NoError(t, err)

	require.Len(t, transcript.Segments, 3)
	assert.Equal(t, "Welcome to the paper.", transcript.Segments[0].Text)
	assert.Equal(t, 3500*time.Millisecond, transcript.Segments[0].End)
	assert.Equal(t, "Today we present our method.", transcript.Segments[1].Text)
	assert.Equal(t, 66*time.Second, transcript.Segments[2].Start)
	assert.Equal(t, 70250*time.Millisecond, transcript.Duration)

	start, end := transcript.Segments[1].Seconds()
	assert.Equal(t, 3.5, start)
	assert.Equal(t, 6.0, end)
}

func TestParseSRT(t *testing.T) {
	srtContent := `1
00:00:00,000 --> 00:00:03,000
Welcome to the paper.

2
00:00:03,000 --> 00:00:06,000
Results are in
table 2

3
00:00:06,000 --> 00:00:10,000
42`

	parser := NewParser()
	transcript, err := parser.Parse(srtContent, FormatSRT)
	require.NoError(t, err)

	require.Len(t, transcript.Segments, 3)
	assert.Equal(t, "Results are in table 2", transcript.Segments[1].Text)
	assert.Equal(t, "42", transcript.Segments[2].Text, "numeric text after a timing line is kept")
	assert.Equal(t, 10*time.Second, transcript.Duration)
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Segment
		wantErr bool
	}{
		{
			name:    "caption file layout",
			content: `[{"caption":"hello","start":0,"end":1.5},{"caption":"world","start":1.5,"end":3}]`,
			want: []Segment{
				{Start: 0, End: 1500 * time.Millisecond, Text: "hello"},
				{Start: 1500 * time.Millisecond, End: 3 * time.Second, Text: "world"},
			},
		},
		{
			name:    "segments object with alternate names",
			content: `{"segments":[{"text":"a","startTime":1,"endTime":2},{"body":"b","start_time":2,"end_time":4}]}`,
			want: []Segment{
				{Start: time.Second, End: 2 * time.Second, Text: "a"},
				{Start: 2 * time.Second, End: 4 * time.Second, Text: "b"},
			},
		},
		{
			name:    "missing end",
			content: `[{"caption":"x","start":1}]`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `WEBVTT`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcript, err := NewParser().Parse(tt.content, FormatJSON)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, transcript.Segments)
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := NewParser().Parse("hello", TranscriptFormat("text"))
	assert.Error(t, err)
}

func TestParse_EmptyContent(t *testing.T) {
	transcript, err := NewParser().Parse("WEBVTT\n", FormatVTT)
	require.NoError(t, err)
	assert.NotNil(t, transcript.Segments)
	assert.Empty(t, transcript.Segments)
	assert.Zero(t, transcript.Duration)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		contentType string
		content     string
		want        TranscriptFormat
	}{
		{name: "vtt extension", source: "captions.VTT", want: FormatVTT},
		{name: "srt extension", source: "/data/captions.srt", want: FormatSRT},
		{name: "json extension", source: "captions.json", want: FormatJSON},
		{name: "vtt content type", source: "https://x/captions", contentType: "text/vtt; charset=utf-8", want: FormatVTT},
		{name: "subrip content type", source: "https://x/captions", contentType: "application/x-subrip", want: FormatSRT},
		{name: "webvtt header", source: "captions", content: "\nWEBVTT\n\n00:00.000 --> 00:01.000\nhi", want: FormatVTT},
		{name: "arrow without header", source: "captions", content: "1\n00:00:00,000 --> 00:00:01,000\nhi", want: FormatSRT},
		{name: "json array", source: "captions", content: `[{"caption":"x"}]`, want: FormatJSON},
		{name: "unknown", source: "captions", content: "plain words", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.source, tt.contentType, tt.content))
		})
	}
}
