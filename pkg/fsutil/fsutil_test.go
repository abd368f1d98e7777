package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("returns content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "part.gcode", "G28\nG1 Z0.2\n")

		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "G28\nG1 Z0.2\n", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(len(content)), info.Size)
		assert.NotZero(t, info.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.gcode"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "irrelevant.gcode")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "G28\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("same size rewrite with preserved mod time", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "G1 Z0.2\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("G1 Z0.4\n"), 0o644))
		require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("grown file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "G28\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("G28\nM84\n"), 0o644))
		later := info.ModTime.Add(time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "G28\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("replaces content and mode", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeFile(t, dir, "a.gcode", "old\n")

		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new\n"), 0o600))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new\n", string(got))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must not be left behind")
	})

	t.Run("zero mode uses default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "new.gcode")
		require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("G28\n"), 0))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
	})

	t.Run("missing directory leaves nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "a.gcode")
		require.Error(t, fsutil.WriteAtomic(ctx, path, []byte("G28\n"), 0))

		_, err := os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBackups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := fsutil.DefaultBackupConfig()

	t.Run("create then restore", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "original\n")

		created, err := fsutil.CreateBackup(ctx, path, []byte("original\n"), 0o644, cfg)
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, fsutil.BackupExists(path, cfg))
		assert.Equal(t, path+".bricklayer.bak", cfg.Path(path))

		require.NoError(t, os.WriteFile(path, []byte("rewritten\n"), 0o644))

		restored, err := fsutil.RestoreBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.True(t, restored)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original\n", string(got))
		assert.False(t, fsutil.BackupExists(path, cfg))
	})

	t.Run("existing backup is kept", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeFile(t, dir, "a.gcode", "second\n")
		writeFile(t, dir, "a.gcode.bricklayer.bak", "first\n")

		created, err := fsutil.CreateBackup(ctx, path, []byte("second\n"), 0o644, cfg)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := os.ReadFile(cfg.Path(path))
		require.NoError(t, err)
		assert.Equal(t, "first\n", string(got))
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "x\n")

		created, err := fsutil.CreateBackup(ctx, path, []byte("x\n"), 0o644, fsutil.BackupConfig{})
		require.NoError(t, err)
		assert.False(t, created)
		assert.False(t, fsutil.BackupExists(path, cfg))
	})

	t.Run("restore without backup", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.gcode", "x\n")

		restored, err := fsutil.RestoreBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.False(t, restored)
	})
}
