package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

func orcaPart(segments int) string {
	var b strings.Builder
	b.WriteString("; CHANGE_LAYER\n; Z_HEIGHT: 0.2\n")
	b.WriteString("; CHANGE_LAYER\n; Z_HEIGHT: 0.4\n")
	b.WriteString("; FEATURE: Inner wall\n")
	for range segments {
		b.WriteString("G1 X1 Y1 F9000\nG1 X2 Y1 E1.0\n")
	}
	b.WriteString("; CHANGE_LAYER\n; Z_HEIGHT: 0.6\n")
	return b.String()
}

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()
	engine, err := bricklayer.New(bricklayer.DefaultOptions(), nil)
	require.NoError(t, err)
	return runner.New(pipeline.New(engine))
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, map[string]string{
		"a.gcode":       orcaPart(2),
		"b.gcode":       orcaPart(3),
		"plain.gcode":   "G28\nG1 X1 Y1 E1\n",
		"sub/c.gcode":   orcaPart(1),
		"sub/readme.md": "# hi\n",
	})

	opts := runner.Options{
		WorkingDir: dir,
		Jobs:       2,
		Pipeline:   pipeline.DefaultOptions(),
	}

	result, err := newRunner(t).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Files, 4)
	assert.Equal(t, []string{"a.gcode", "b.gcode", "plain.gcode", "sub/c.gcode"},
		relAll(t, dir, paths(result)))

	assert.Equal(t, 4, result.Stats.FilesDiscovered)
	assert.Equal(t, 4, result.Stats.FilesProcessed)
	assert.Equal(t, 3, result.Stats.FilesModified)
	assert.Equal(t, 3, result.Stats.FilesWritten)
	assert.Equal(t, 6, result.Stats.Segments)
	assert.Equal(t, 4, result.Stats.ShiftedSegments)
	assert.Equal(t, 1, result.Stats.Warnings)
	assert.False(t, result.HasFailures())

	_, err = os.Stat(filepath.Join(dir, "a.gcode.bricklayer.bak"))
	assert.NoError(t, err)
}

func TestRunner_RunFiles_RecordsErrors(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, map[string]string{"a.gcode": orcaPart(1)})
	files := []string{filepath.Join(dir, "a.gcode"), filepath.Join(dir, "missing.gcode")}

	opts := runner.Options{Pipeline: pipeline.DefaultOptions()}
	opts.Pipeline.DryRun = true

	result, err := newRunner(t).RunFiles(context.Background(), files, opts)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.NoError(t, result.Files[0].Error)
	require.ErrorIs(t, result.Files[1].Error, pipeline.ErrReadFailure)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Zero(t, result.Stats.FilesWritten)
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, map[string]string{"a.gcode": orcaPart(1), "b.gcode": orcaPart(1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{filepath.Join(dir, "a.gcode"), filepath.Join(dir, "b.gcode")}
	result, err := newRunner(t).RunFiles(ctx, files, runner.Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Files)
}

func TestRunner_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(t).RunFiles(context.Background(), nil, runner.Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
}

func TestNewResult(t *testing.T) {
	t.Parallel()

	engine, err := bricklayer.New(bricklayer.DefaultOptions(), nil)
	require.NoError(t, err)

	pr, err := pipeline.New(engine).ProcessBytes(context.Background(), "-", []byte(orcaPart(2)),
		pipeline.Options{SkipTypeCheck: true})
	require.NoError(t, err)

	result := runner.NewResult(
		runner.FileOutcome{Path: "-", Result: pr},
		runner.FileOutcome{Path: "broken.gcode", Error: pipeline.ErrReadFailure},
	)

	assert.Equal(t, []string{"-", "broken.gcode"}, paths(result))
	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Zero(t, result.Stats.FilesWritten)
	assert.Equal(t, 1, result.Stats.ShiftedSegments)
	assert.True(t, result.HasFailures())
}

func paths(result *runner.Result) []string {
	out := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		out = append(out, f.Path)
	}
	return out
}
