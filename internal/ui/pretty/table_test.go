package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/internal/ui/pretty"
	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

func sampleRun() *runner.Result {
	rewritten := &pipeline.Result{
		Result: &bricklayer.Result{
			Dialect: dialect.Orca,
			Stats:   bricklayer.Stats{Layers: 3, Segments: 6, ShiftedSegments: 3, AdjustedExtrusions: 12, Warnings: 1},
		},
		Path:     "parts/bracket.gcode",
		Modified: true,
		Written:  true,
	}
	skipped := &pipeline.Result{Path: "notes.gcode", Skip: pipeline.ErrNotGCode}

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "parts/bracket.gcode", Result: rewritten},
			{Path: "notes.gcode", Result: skipped},
			{Path: "locked.gcode", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{FilesProcessed: 2, FilesWritten: 1, Layers: 3, Segments: 6, ShiftedSegments: 3, AdjustedExtrusions: 12},
	}
}

func TestRowFromOutcome(t *testing.T) {
	run := sampleRun()

	row := pretty.RowFromOutcome(run.Files[0])
	assert.Equal(t, "orca", row.Dialect)
	assert.Equal(t, 3, row.Shifted)
	assert.Equal(t, "rewritten", row.Status)

	assert.Equal(t, "skipped", pretty.RowFromOutcome(run.Files[1]).Status)
	assert.Equal(t, "-", pretty.RowFromOutcome(run.Files[1]).Dialect)
	assert.Equal(t, "error", pretty.RowFromOutcome(run.Files[2]).Status)
}

func TestFormatTable(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	out := formatter.FormatTable(sampleRun())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7, out)

	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "SHIFTED")
	assert.True(t, strings.HasPrefix(lines[1], "===="))
	assert.Contains(t, lines[2], "parts/bracket.gcode")
	assert.Contains(t, lines[3], "skipped")
	assert.Contains(t, lines[4], "error")
	assert.Contains(t, lines[6], "2 files")
	assert.Contains(t, lines[6], "1 written")

	assert.Empty(t, formatter.FormatTable(&runner.Result{}))
	assert.Empty(t, formatter.FormatTable(nil))
}

func TestFormatTable_TruncatesLongPaths(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	long := strings.Repeat("deep/", 20) + "part.gcode"
	run := &runner.Result{Files: []runner.FileOutcome{
		{Path: long, Result: &pipeline.Result{Path: long}},
	}}

	out := formatter.FormatTable(run)
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "part.gcode")
	assert.NotContains(t, out, long)
}
