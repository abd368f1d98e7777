package bricklayer

import (
	"fmt"

	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// EventKind identifies a state transition recorded during a pass.
type EventKind int

const (
	EventLayerChanged EventKind = iota
	EventRegionEntered
	EventRegionExited
	EventSegmentStarted
	EventZRestored
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventLayerChanged:
		return "layer"
	case EventRegionEntered:
		return "region-enter"
	case EventRegionExited:
		return "region-exit"
	case EventSegmentStarted:
		return "segment"
	case EventZRestored:
		return "restore"
	default:
		return "unknown"
	}
}

// Event is one state transition. Line is the 1-based input line that caused
// it.
type Event struct {
	Kind    EventKind
	Line    int
	Layer   int
	Segment int
	Z       float64
	Shifted bool
}

// Warning is a recoverable problem. The offending line is passed through
// unchanged.
type Warning struct {
	// Line is the 1-based input line, or 0 for file-level warnings.
	Line    int
	Message string
}

// String formats the warning for logs.
func (w Warning) String() string {
	if w.Line == 0 {
		return w.Message
	}
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// Stats summarises a pass.
type Stats struct {
	Layers             int
	Regions            int
	Segments           int
	ShiftedSegments    int
	AdjustedExtrusions int
	InsertedLines      int
	RestoredZ          int
	Warnings           int
}

// Result is the outcome of a pass over one file.
type Result struct {
	// Lines is the rewritten output.
	Lines []gcode.Line

	// Origins maps each output line to the index of the input line it came
	// from, or -1 for inserted lines.
	Origins []int

	// Dialect is the marker set used for the pass.
	Dialect dialect.Dialect

	// Survey is the pre-pass summary of the input.
	Survey dialect.Survey

	Stats    Stats
	Events   []Event
	Warnings []Warning

	// AlreadyProcessed is set when the input carried provenance comments and
	// the pass was skipped.
	AlreadyProcessed bool
}

// Modified reports whether the output differs from the input.
func (r *Result) Modified() bool {
	return r.Stats.InsertedLines > 0 || r.Stats.AdjustedExtrusions > 0
}

// Content returns the output as bytes.
func (r *Result) Content() []byte {
	return gcode.JoinLines(r.Lines)
}
