package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a G-code path to name its backup.
const BackupSuffix = ".bricklayer.bak"

// BackupConfig controls backups taken before a file is rewritten.
type BackupConfig struct {
	Enabled bool

	// Suffix overrides BackupSuffix when set.
	Suffix string
}

// DefaultBackupConfig enables sidecar backups. Rewritten toolpaths cannot be
// reconstructed from the output, so backups are on unless turned off.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Enabled: true, Suffix: BackupSuffix}
}

// Path returns the backup path for path.
func (c BackupConfig) Path(path string) string {
	if c.Suffix == "" {
		return path + BackupSuffix
	}
	return path + c.Suffix
}

// CreateBackup writes original, the content read before rewriting, next to
// path. An existing backup is never overwritten, so the first backup always
// holds the slicer's output. It returns true when a backup was written.
func CreateBackup(ctx context.Context, path string, original []byte, mode os.FileMode, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := cfg.Path(path)
	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat backup %s: %w", backupPath, err)
	}

	if err := WriteAtomic(ctx, backupPath, original, mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup moves the backup of path back over it. It returns false
// when there is no backup.
func RestoreBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}

	backupPath := cfg.Path(path)
	content, info, err := ReadFile(ctx, backupPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read backup: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, info.Mode); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	if err := os.Remove(backupPath); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether path has a backup.
func BackupExists(path string, cfg BackupConfig) bool {
	_, err := os.Stat(cfg.Path(path))
	return err == nil
}
