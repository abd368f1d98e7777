package runner

import "github.com/yaklabco/gobricklayer/pkg/pipeline"

// FileOutcome is the result for one discovered file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *pipeline.Result
	Error  error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int

	// FilesModified counts files whose rewrite changed content, written or
	// not. FilesWritten counts those written to disk.
	FilesModified int
	FilesWritten  int

	Layers             int
	Segments           int
	ShiftedSegments    int
	AdjustedExtrusions int
	InsertedLines      int
	Warnings           int
}

// Result is the outcome of a run. Files follow discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// NewResult aggregates outcomes produced outside Run, such as a single
// in-memory rewrite.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{Files: make([]FileOutcome, 0, len(outcomes))}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++
	pr := outcome.Result

	if pr.Skipped() {
		r.Stats.FilesSkipped++
	}
	if pr.Modified {
		r.Stats.FilesModified++
	}
	if pr.Written {
		r.Stats.FilesWritten++
	}

	if pr.Result == nil {
		return
	}
	s := pr.Result.Stats
	r.Stats.Layers += s.Layers
	r.Stats.Segments += s.Segments
	r.Stats.ShiftedSegments += s.ShiftedSegments
	r.Stats.AdjustedExtrusions += s.AdjustedExtrusions
	r.Stats.InsertedLines += s.InsertedLines
	r.Stats.Warnings += s.Warnings
}
