package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
	"github.com/yaklabco/gobricklayer/pkg/reporter"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

const orcaPart = "; CHANGE_LAYER\n; Z_HEIGHT: 0.2\n" +
	"; CHANGE_LAYER\n; Z_HEIGHT: 0.4\n" +
	"; FEATURE: Inner wall\n" +
	"G1 X1 Y1 F9000\nG1 X2 Y1 E1.0\n" +
	"G1 X1 Y1 F9000\nG1 X2 Y1 E1.0\n" +
	"; CHANGE_LAYER\n; Z_HEIGHT: 0.6\n"

// dryRun processes a part with inner walls, a part without and a missing
// file, without writing anything.
func dryRun(t *testing.T) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"part.gcode":  orcaPart,
		"plain.gcode": "G28\nG1 X1 Y1 E1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	engine, err := bricklayer.New(bricklayer.DefaultOptions(), nil)
	require.NoError(t, err)

	paths := []string{
		filepath.Join(dir, "part.gcode"),
		filepath.Join(dir, "plain.gcode"),
		filepath.Join(dir, "missing.gcode"),
	}
	opts := runner.Options{Jobs: 1, Pipeline: pipeline.Options{DryRun: true}}

	result, err := runner.New(pipeline.New(engine)).RunFiles(context.Background(), paths, opts)
	require.NoError(t, err)
	return result, dir
}

func report(t *testing.T, result *runner.Result, opts reporter.Options) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), n
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, reporter.Formats(), 5)
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	result, dir := dryRun(t)

	out, n := report(t, result, reporter.Options{
		Format: reporter.FormatText, ShowSummary: true, DryRun: true, WorkingDir: dir,
	})

	assert.Equal(t, 1, n)
	assert.Contains(t, out, "part.gcode (changes pending)\n")
	assert.Contains(t, out, "plain.gcode (unchanged)\n")
	assert.Contains(t, out, "  plain.gcode  warning  no internal perimeters found\n")
	assert.Contains(t, out, "missing.gcode: error: ")
	assert.Contains(t, out, "1 file would be rewritten, 1 segment shifted in 3 layers, 1 warning, 1 failed\n")
	assert.NotContains(t, out, "segment #1", "segment decisions are verbose only")
}

func TestTextReporter_Verbose(t *testing.T) {
	result, dir := dryRun(t)

	out, _ := report(t, result, reporter.Options{Format: reporter.FormatText, Verbose: true, WorkingDir: dir})

	assert.Contains(t, out, "segment #1  shifted")
	assert.Contains(t, out, "segment #2  base")
}

func TestTextReporter_NoFiles(t *testing.T) {
	out, n := report(t, &runner.Result{}, reporter.Options{Format: reporter.FormatText, ShowSummary: true})

	assert.Zero(t, n)
	assert.Equal(t, "No G-code files found.\n", out)
}

func TestJSONReporter(t *testing.T) {
	result, dir := dryRun(t)

	out, n := report(t, result, reporter.Options{Format: reporter.FormatJSON, WorkingDir: dir})
	assert.Equal(t, 1, n)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "1.0.0", decoded.Version)
	require.Len(t, decoded.Files, 3)

	part := decoded.Files[0]
	assert.Equal(t, "part.gcode", part.Path)
	assert.Equal(t, "orca", part.Dialect)
	assert.True(t, part.Modified)
	assert.False(t, part.Written)
	require.NotNil(t, part.Stats)
	assert.Equal(t, 2, part.Stats.Segments)
	assert.Equal(t, 1, part.Stats.ShiftedSegments)
	assert.Empty(t, part.Warnings)

	plain := decoded.Files[1]
	require.Len(t, plain.Warnings, 1)
	assert.Equal(t, "no internal perimeters found", plain.Warnings[0].Message)

	assert.Equal(t, "error", decoded.Files[2].Status)
	assert.NotEmpty(t, decoded.Files[2].Error)

	assert.Equal(t, 3, decoded.Summary.FilesDiscovered)
	assert.Equal(t, 2, decoded.Summary.FilesProcessed)
	assert.Equal(t, 1, decoded.Summary.FilesModified)
	assert.Equal(t, 1, decoded.Summary.FilesErrored)
}

func TestJSONReporter_Compact(t *testing.T) {
	out, _ := report(t, nil, reporter.Options{Format: reporter.FormatJSON, Compact: true})

	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"files":[]`)
}

func TestDiffReporter(t *testing.T) {
	result, dir := dryRun(t)

	out, n := report(t, result, reporter.Options{Format: reporter.FormatDiff, ShowSummary: true, WorkingDir: dir})

	assert.Equal(t, 1, n)
	assert.Contains(t, out, "diff --git a/part.gcode b/part.gcode\n")
	assert.Contains(t, out, "--- a/part.gcode\n+++ b/part.gcode\n")
	assert.Contains(t, out, "+G1 Z0.500 ; bricklayer: shifted Z for segment #1\n")
	assert.Contains(t, out, "-G1 X2 Y1 E1.0\n")
	assert.NotContains(t, out, "plain.gcode", "unchanged files have no diff")
	assert.Contains(t, out, "1 file changed, 3 insertions(+), 1 deletion(-)\n")
}

func TestTableReporter(t *testing.T) {
	result, dir := dryRun(t)

	out, _ := report(t, result, reporter.Options{
		Format: reporter.FormatTable, ShowSummary: true, DryRun: true, WorkingDir: dir, TermWidth: 120,
	})
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "part.gcode")
	assert.Contains(t, out, "would be rewritten")
	assert.NotContains(t, out, "Summary")

	out, _ = report(t, result, reporter.Options{Format: reporter.FormatSummary, WorkingDir: dir, TermWidth: 120})
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Completed with failures")
}
