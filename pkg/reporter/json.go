package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// jsonVersion is bumped when the output shape changes incompatibly.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string        `json:"path"`
	Status        string        `json:"status"`
	Dialect       string        `json:"dialect,omitempty"`
	Modified      bool          `json:"modified"`
	Written       bool          `json:"written"`
	BackupCreated bool          `json:"backupCreated,omitempty"`
	Skipped       string        `json:"skipped,omitempty"`
	Error         string        `json:"error,omitempty"`
	Stats         *JSONStats    `json:"stats,omitempty"`
	Warnings      []JSONWarning `json:"warnings"`
}

// JSONStats mirrors the per-file pass statistics.
type JSONStats struct {
	Layers             int `json:"layers"`
	Regions            int `json:"regions"`
	Segments           int `json:"segments"`
	ShiftedSegments    int `json:"shiftedSegments"`
	AdjustedExtrusions int `json:"adjustedExtrusions"`
	InsertedLines      int `json:"insertedLines"`
	RestoredZ          int `json:"restoredZ"`
}

// JSONWarning is one engine warning.
type JSONWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered    int `json:"filesDiscovered"`
	FilesProcessed     int `json:"filesProcessed"`
	FilesModified      int `json:"filesModified"`
	FilesWritten       int `json:"filesWritten"`
	FilesSkipped       int `json:"filesSkipped"`
	FilesErrored       int `json:"filesErrored"`
	Layers             int `json:"layers"`
	Segments           int `json:"segments"`
	ShiftedSegments    int `json:"shiftedSegments"`
	AdjustedExtrusions int `json:"adjustedExtrusions"`
	InsertedLines      int `json:"insertedLines"`
	Warnings           int `json:"warnings"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return changedFiles(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildFile(file))
	}

	s := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered:    s.FilesDiscovered,
		FilesProcessed:     s.FilesProcessed,
		FilesModified:      s.FilesModified,
		FilesWritten:       s.FilesWritten,
		FilesSkipped:       s.FilesSkipped,
		FilesErrored:       s.FilesErrored,
		Layers:             s.Layers,
		Segments:           s.Segments,
		ShiftedSegments:    s.ShiftedSegments,
		AdjustedExtrusions: s.AdjustedExtrusions,
		InsertedLines:      s.InsertedLines,
		Warnings:           s.Warnings,
	}

	return output
}

func (r *JSONReporter) buildFile(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:     displayPath(file.Path, r.opts.WorkingDir),
		Warnings: make([]JSONWarning, 0),
	}

	if file.Error != nil {
		out.Status = "error"
		out.Error = file.Error.Error()
		return out
	}
	pr := file.Result
	if pr == nil {
		return out
	}

	out.Status = pr.Summary()
	out.Modified = pr.Modified
	out.Written = pr.Written
	out.BackupCreated = pr.BackupCreated
	if pr.Skipped() {
		out.Status = "skipped"
		out.Skipped = pr.Skip.Error()
	}

	if pr.Result == nil {
		return out
	}

	out.Dialect = pr.Dialect.String()
	st := pr.Result.Stats
	out.Stats = &JSONStats{
		Layers:             st.Layers,
		Regions:            st.Regions,
		Segments:           st.Segments,
		ShiftedSegments:    st.ShiftedSegments,
		AdjustedExtrusions: st.AdjustedExtrusions,
		InsertedLines:      st.InsertedLines,
		RestoredZ:          st.RestoredZ,
	}
	for _, w := range pr.Warnings {
		out.Warnings = append(out.Warnings, JSONWarning{Line: w.Line, Message: w.Message})
	}

	return out
}
