package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/fsutil"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
)

const sample = `; generated by OrcaSlicer 2.1.1
; CHANGE_LAYER
; Z_HEIGHT: 0.2
G1 Z.2 F720
; CHANGE_LAYER
; Z_HEIGHT: 0.4
G1 Z.4 F720
; FEATURE: Inner wall
G1 X10 Y10 F9000
G1 X20 Y10 E1.0
G1 X30 Y30 F9000
G1 X40 Y30 E1.0
; FEATURE: Outer wall
G1 X0 Y0 E2.0
; CHANGE_LAYER
; Z_HEIGHT: 0.6
G1 Z.6 F720
`

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	engine, err := bricklayer.New(bricklayer.DefaultOptions(), nil)
	require.NoError(t, err)
	return pipeline.New(engine)
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func TestProcessFile_Rewrites(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "part.gcode", sample)
	p := newPipeline(t)

	result, err := p.ProcessFile(context.Background(), path, pipeline.DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.False(t, result.Skipped())
	assert.Nil(t, result.Diff)
	assert.Equal(t, "rewritten (backup created)", result.Summary())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "G1 Z0.500 ; bricklayer: shifted Z for segment #1\n")

	backup, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, sample, string(backup))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), stat.Mode().Perm())
}

func TestProcessFile_SecondRunIsSkipped(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "part.gcode", sample)
	p := newPipeline(t)
	ctx := context.Background()

	_, err := p.ProcessFile(ctx, path, pipeline.DefaultOptions())
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := p.ProcessFile(ctx, path, pipeline.DefaultOptions())
	require.NoError(t, err)

	require.ErrorIs(t, result.Skip, pipeline.ErrAlreadyProcessed)
	assert.False(t, result.Written)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestProcessFile_DryRun(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "part.gcode", sample)
	p := newPipeline(t)

	opts := pipeline.DefaultOptions()
	opts.DryRun = true

	result, err := p.ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	assert.Equal(t, "changes pending", result.Summary())
	require.True(t, result.Diff.HasChanges())
	assert.Contains(t, result.Diff.String(), "+G1 Z0.500 ; bricklayer: shifted Z for segment #1\n")
	assert.Contains(t, result.Diff.String(), "-G1 X20 Y10 E1.0\n")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample, string(got))
	assert.False(t, fsutil.BackupExists(path, opts.Backup))
}

func TestProcessFile_NoBackup(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "part.gcode", sample)
	p := newPipeline(t)

	opts := pipeline.DefaultOptions()
	opts.Backup.Enabled = false

	result, err := p.ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.False(t, result.BackupCreated)
	assert.False(t, fsutil.BackupExists(path, fsutil.DefaultBackupConfig()))
}

func TestProcessFile_Unchanged(t *testing.T) {
	t.Parallel()

	content := "G28\nG1 Z0.2 F720\nG1 X1 Y1 E1\n"
	path := writeSample(t, "plain.gcode", content)
	p := newPipeline(t)

	result, err := p.ProcessFile(context.Background(), path, pipeline.DefaultOptions())
	require.NoError(t, err)

	assert.False(t, result.Modified)
	assert.False(t, result.Written)
	assert.Equal(t, "unchanged", result.Summary())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "no internal perimeters found", result.Warnings[0].Message)
}

func TestProcessFile_NotGCode(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "README.md", "# Notes\n\nNot a toolpath.\n")
	p := newPipeline(t)

	result, err := p.ProcessFile(context.Background(), path, pipeline.DefaultOptions())
	require.NoError(t, err)

	require.ErrorIs(t, result.Skip, pipeline.ErrNotGCode)
	assert.Nil(t, result.Result)
	assert.True(t, strings.HasPrefix(result.Summary(), "skipped"))
}

func TestProcessFile_Missing(t *testing.T) {
	t.Parallel()

	p := newPipeline(t)

	_, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "gone.gcode"), pipeline.DefaultOptions())
	require.ErrorIs(t, err, pipeline.ErrReadFailure)
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestProcessBytes_Stdin(t *testing.T) {
	t.Parallel()

	p := newPipeline(t)

	opts := pipeline.DefaultOptions()
	opts.SkipTypeCheck = true
	opts.Diff = true

	result, err := p.ProcessBytes(context.Background(), "-", []byte(sample), opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	assert.NotNil(t, result.Diff)
	assert.Contains(t, string(result.Content()), "; bricklayer: reset Z for segment #2")
}
