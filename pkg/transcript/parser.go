// Package transcript parses timed caption files (WebVTT, SRT and JSON) into
// ordered segments.
package transcript

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TranscriptFormat represents the format of a transcript
type TranscriptFormat string

const (
	FormatVTT  TranscriptFormat = "vtt"
	FormatSRT  TranscriptFormat = "srt"
	FormatJSON TranscriptFormat = "json"
)

// Segment represents a transcript segment with timing information
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Seconds returns the segment bounds in seconds.
func (s Segment) Seconds() (start, end float64) {
	return s.Start.Seconds(), s.End.Seconds()
}

// Transcript represents a parsed transcript
type Transcript struct {
	Format   TranscriptFormat
	Segments []Segment
	Duration time.Duration
}

var (
	// 00:00:01.000 --> 00:00:05.000, hours optional
	vttTimestampRegex = regexp.MustCompile(`((?:\d{2,}:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d{2,}:)?\d{2}:\d{2}\.\d{3})`)
	// 00:00:01,000 --> 00:00:05,000
	srtTimestampRegex = regexp.MustCompile(`(\d{2,}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2,}:\d{2}:\d{2},\d{3})`)
	sequenceRegex     = regexp.MustCompile(`^\d+$`)
	vttTagRegex       = regexp.MustCompile(`</?[a-z][^>]*>`)
)

// Parser handles parsing different transcript formats
type Parser struct{}

// NewParser creates a new transcript parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses transcript content based on its format
func (p *Parser) Parse(content string, format TranscriptFormat) (*Transcript, error) {
	var (
		t   *Transcript
		err error
	)
	switch format {
	case FormatVTT:
		t, err = p.parseVTT(content)
	case FormatSRT:
		t, err = p.parseSRT(content)
	case FormatJSON:
		t, err = p.parseJSON(content)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(t.Segments) > 0 {
		t.Duration = t.Segments[len(t.Segments)-1].End
	}
	return t, nil
}

// cueBuilder collects the text lines of the cue being read.
type cueBuilder struct {
	segments []Segment
	current  *Segment
	text     strings.Builder
}

func (b *cueBuilder) start(start, end time.Duration) {
	b.flush()
	b.current = &Segment{Start: start, End: end}
}

func (b *cueBuilder) add(line string) {
	if b.current == nil {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString(" ")
	}
	b.text.WriteString(line)
}

func (b *cueBuilder) flush() {
	if b.current != nil && b.text.Len() > 0 {
		b.current.Text = strings.TrimSpace(b.text.String())
		b.segments = append(b.segments, *b.current)
	}
	b.current = nil
	b.text.Reset()
}

// parseVTT parses WebVTT format transcripts
func (p *Parser) parseVTT(content string) (*Transcript, error) {
	var b cueBuilder
	inNote := false

	for _, line := range splitLines(content) {
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			inNote = false
			b.flush()
			continue
		case strings.HasPrefix(line, "WEBVTT"):
			continue
		case strings.HasPrefix(line, "NOTE"), strings.HasPrefix(line, "STYLE"), strings.HasPrefix(line, "REGION"):
			inNote = true
			continue
		case inNote:
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); matches != nil {
			start, err := parseTimestamp(matches[1])
			if err != nil {
				return nil, err
			}
			end, err := parseTimestamp(matches[2])
			if err != nil {
				return nil, err
			}
			b.start(start, end)
			continue
		}
		// Cue identifiers precede the timing line and are not text.
		if b.current == nil {
			continue
		}
		if cleaned := removeVTTTags(line); cleaned != "" {
			b.add(cleaned)
		}
	}
	b.flush()

	return &Transcript{Format: FormatVTT, Segments: nonNil(b.segments)}, nil
}

// parseSRT parses SRT format transcripts
func (p *Parser) parseSRT(content string) (*Transcript, error) {
	var b cueBuilder

	for _, line := range splitLines(content) {
		line = strings.TrimSpace(line)

		if line == "" {
			b.flush()
			continue
		}
		if b.current == nil && sequenceRegex.MatchString(line) {
			continue
		}
		if matches := srtTimestampRegex.FindStringSubmatch(line); matches != nil {
			start, err := parseTimestamp(strings.Replace(matches[1], ",", ".", 1))
			if err != nil {
				return nil, err
			}
			end, err := parseTimestamp(strings.Replace(matches[2], ",", ".", 1))
			if err != nil {
				return nil, err
			}
			b.start(start, end)
			continue
		}
		b.add(line)
	}
	b.flush()

	return &Transcript{Format: FormatSRT, Segments: nonNil(b.segments)}, nil
}

// jsonSegment accepts the caption file layout ({caption, start, end}) as
// well as the common startTime/start_time variants.
type jsonSegment struct {
	Caption   string   `json:"caption"`
	Text      string   `json:"text"`
	Body      string   `json:"body"`
	Start     *float64 `json:"start"`
	StartTime *float64 `json:"startTime"`
	StartAlt  *float64 `json:"start_time"`
	End       *float64 `json:"end"`
	EndTime   *float64 `json:"endTime"`
	EndAlt    *float64 `json:"end_time"`
}

func (s jsonSegment) text() string {
	for _, t := range []string{s.Caption, s.Text, s.Body} {
		if t != "" {
			return strings.TrimSpace(t)
		}
	}
	return ""
}

func firstSet(values ...*float64) (float64, bool) {
	for _, v := range values {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// parseJSON parses JSON format transcripts, either a bare array of segments
// or an object with a "segments" array. Times are in seconds.
func (p *Parser) parseJSON(content string) (*Transcript, error) {
	var segments []jsonSegment
	if err := json.Unmarshal([]byte(content), &segments); err != nil {
		var obj struct {
			Segments []jsonSegment `json:"segments"`
		}
		if err := json.Unmarshal([]byte(content), &obj); err != nil {
			return nil, fmt.Errorf("failed to parse JSON transcript: %w", err)
		}
		segments = obj.Segments
	}

	out := make([]Segment, 0, len(segments))
	for i, seg := range segments {
		start, ok := firstSet(seg.Start, seg.StartTime, seg.StartAlt)
		if !ok {
			return nil, fmt.Errorf("segment %d: missing start time", i)
		}
		end, ok := firstSet(seg.End, seg.EndTime, seg.EndAlt)
		if !ok {
			return nil, fmt.Errorf("segment %d: missing end time", i)
		}
		out = append(out, Segment{
			Start: secondsToDuration(start),
			End:   secondsToDuration(end),
			Text:  seg.text(),
		})
	}

	return &Transcript{Format: FormatJSON, Segments: out}, nil
}

// parseTimestamp parses HH:MM:SS.mmm or MM:SS.mmm
func parseTimestamp(timestamp string) (time.Duration, error) {
	parts := strings.Split(timestamp, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %s", timestamp)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %s: %w", timestamp, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %s: %w", timestamp, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %s: %w", timestamp, err)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		secondsToDuration(seconds), nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond)
}

// removeVTTTags removes voice, class and styling tags from cue text
func removeVTTTags(text string) string {
	return strings.TrimSpace(vttTagRegex.ReplaceAllString(text, ""))
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func nonNil(segments []Segment) []Segment {
	if segments == nil {
		return []Segment{}
	}
	return segments
}
