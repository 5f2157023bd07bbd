package mapping

import (
	"fmt"
	"slices"

	"github.com/killallgit/paperreel-api/internal/models"
)

// Mode is the editor's interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeMappingSelected
	ModeModifying
	ModeHighlightingWords
)

var modeNames = map[Mode]string{
	ModeIdle:              "idle",
	ModeSelecting:         "selecting",
	ModeMappingSelected:   "mapping_selected",
	ModeModifying:         "modifying",
	ModeHighlightingWords: "highlighting_words",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is the editor state. Clip is meaningful only in the modes that
// carry a selected mapping.
type State struct {
	Mode Mode `json:"mode"`
	Clip int  `json:"clip"`
}

// SelectedClip returns the clip the state refers to, if any.
func (s State) SelectedClip() (int, bool) {
	switch s.Mode {
	case ModeMappingSelected, ModeModifying, ModeHighlightingWords:
		return s.Clip, true
	}
	return 0, false
}

// Editor drives a Graph from user interactions. It keeps the block
// selection, the pending time range and the pending word alignment, and
// moves between modes through explicit transitions.
type Editor struct {
	graph    *Graph
	state    State
	selected []int

	start, end float64
	hasRange   bool

	pending models.SyncWords
}

// NewEditor creates an idle editor over the graph.
func NewEditor(graph *Graph) *Editor {
	return &Editor{graph: graph}
}

// Graph returns the underlying graph.
func (e *Editor) Graph() *Graph {
	return e.graph
}

// State returns the current state.
func (e *Editor) State() State {
	return e.state
}

// SelectedBlocks returns the current block selection in reading order.
func (e *Editor) SelectedBlocks() []int {
	return slices.Clone(e.selected)
}

// TimeRange returns the pending time range.
func (e *Editor) TimeRange() (start, end float64, ok bool) {
	return e.start, e.end, e.hasRange
}

// PendingWords returns the word alignment being built in highlight mode.
func (e *Editor) PendingWords() models.SyncWords {
	return e.pending.Clone()
}

func (e *Editor) toIdle() {
	e.state = State{Mode: ModeIdle}
	e.selected = nil
	e.pending = models.SyncWords{}
}

func (e *Editor) toMapping(clipID int) {
	e.state = State{Mode: ModeMappingSelected, Clip: clipID}
	e.selected = nil
	e.pending = models.SyncWords{}
}

// settle drops back to idle when the selected clip no longer exists.
func (e *Editor) settle() {
	if clipID, ok := e.state.SelectedClip(); ok {
		if _, exists := e.graph.Clip(clipID); !exists {
			e.toIdle()
		}
	}
}

// ToggleBlock handles a click on a block. While modifying a mapping it adds
// the block to or removes it from the mapping's highlights; otherwise it
// toggles the block in the selection.
func (e *Editor) ToggleBlock(blockID int) bool {
	if _, ok := e.graph.Analyzer().Block(blockID); !ok {
		return false
	}

	switch e.state.Mode {
	case ModeModifying:
		op := OpAddBlock
		if _, covered := e.graph.HighlightFor(e.state.Clip, blockID); covered {
			op = OpRemoveBlock
		}
		change := e.graph.ChangeHighlight(e.state.Clip, blockID, op)
		if change.ClipRemoved {
			e.toIdle()
		}
		return change.Applied
	case ModeHighlightingWords:
		return false
	}

	if i := slices.Index(e.selected, blockID); i >= 0 {
		e.selected = slices.Delete(e.selected, i, i+1)
	} else {
		e.selected = e.graph.Analyzer().Sort(append(e.selected, blockID))
	}
	e.pending = models.SyncWords{}
	if len(e.selected) == 0 {
		e.state = State{Mode: ModeIdle}
	} else {
		e.state = State{Mode: ModeSelecting}
	}
	return true
}

// SetTimeRange records the video range used by the next CreateMapping.
func (e *Editor) SetTimeRange(start, end float64) bool {
	if start > end {
		return false
	}
	e.start, e.end, e.hasRange = start, end, true
	return true
}

// CreateMapping maps the selected blocks to the pending time range and
// selects the new mapping.
func (e *Editor) CreateMapping() (int, bool) {
	if e.state.Mode != ModeSelecting || len(e.selected) == 0 || !e.hasRange {
		return 0, false
	}
	clipID, ok := e.graph.CreateMapping(e.selected, e.start, e.end)
	if !ok {
		return 0, false
	}
	e.toMapping(clipID)
	return clipID, true
}

// SelectMapping selects an existing mapping.
func (e *Editor) SelectMapping(clipID int) bool {
	if _, ok := e.graph.Clip(clipID); !ok {
		return false
	}
	e.toMapping(clipID)
	return true
}

// ClearSelection returns to idle.
func (e *Editor) ClearSelection() {
	e.toIdle()
}

// RemoveMapping deletes the selected mapping.
func (e *Editor) RemoveMapping() bool {
	clipID, ok := e.state.SelectedClip()
	if !ok {
		return false
	}
	removed := e.graph.RemoveMapping(clipID)
	e.toIdle()
	return removed
}

// EnterModify starts editing the selected mapping's highlights.
func (e *Editor) EnterModify() bool {
	if e.state.Mode != ModeMappingSelected {
		return false
	}
	e.state.Mode = ModeModifying
	return true
}

// ExitModify stops editing highlights and keeps the mapping selected.
func (e *Editor) ExitModify() bool {
	if e.state.Mode != ModeModifying {
		return false
	}
	e.state.Mode = ModeMappingSelected
	return true
}

// EnterHighlightMode starts a word alignment for the selected mapping.
func (e *Editor) EnterHighlightMode() bool {
	clipID, ok := e.state.SelectedClip()
	if !ok || e.state.Mode == ModeHighlightingWords {
		return false
	}
	e.state = State{Mode: ModeHighlightingWords, Clip: clipID}
	e.pending = models.SyncWords{ClipID: clipID}
	return true
}

// SelectWords replaces the pending alignment's tokens and caption words.
// Duplicate references are dropped.
func (e *Editor) SelectWords(tokens []models.TokenRef, words []models.CaptionWordRef) bool {
	if e.state.Mode != ModeHighlightingWords {
		return false
	}
	e.pending.TokenIDs = dedupe(tokens)
	e.pending.CaptionIDs = dedupe(words)
	return true
}

// ExitHighlightMode leaves highlight mode. A complete pending alignment is
// appended to the mapping's sync segments; the pending selection is cleared
// either way. It reports whether a segment was appended.
func (e *Editor) ExitHighlightMode() bool {
	if e.state.Mode != ModeHighlightingWords {
		return false
	}
	clipID := e.state.Clip
	appended := false
	if e.pending.Complete() {
		appended = e.graph.AppendSegment(clipID, e.pending)
	}
	e.toMapping(clipID)
	e.settle()
	return appended
}

// ChangeClipNote sets the note of the selected mapping.
func (e *Editor) ChangeClipNote(note string) bool {
	clipID, ok := e.state.SelectedClip()
	if !ok {
		return false
	}
	return e.graph.SetNote(clipID, note)
}

// ChangeClipSupp sets the supplementary flag of the selected mapping.
func (e *Editor) ChangeClipSupp(supplementary bool) bool {
	clipID, ok := e.state.SelectedClip()
	if !ok {
		return false
	}
	return e.graph.SetSupplementary(clipID, supplementary)
}

// ChangeClip moves a mapping's time window.
func (e *Editor) ChangeClip(clipID int, start, end float64) bool {
	return e.graph.ChangeClip(clipID, start, end)
}

// ChangeHighlight adds or removes one block of a mapping.
func (e *Editor) ChangeHighlight(clipID, blockID, op int) Change {
	change := e.graph.ChangeHighlight(clipID, blockID, op)
	e.settle()
	return change
}

// ChangeClipPosition moves a mapping's anchor highlight.
func (e *Editor) ChangeClipPosition(clipID, highlightID int) bool {
	return e.graph.ChangeClipPosition(clipID, highlightID)
}

// RemoveSegment deletes one of a mapping's sync segments.
func (e *Editor) RemoveSegment(clipID, index int) bool {
	return e.graph.RemoveSegment(clipID, index)
}

func dedupe[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	seen := make(map[T]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
