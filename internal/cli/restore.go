package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/logging"
	"github.com/yaklabco/gobricklayer/pkg/fsutil"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

func newRestoreCommand() *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "restore paths...",
		Short: "Put original G-code back from backups",
		Long: `Restore G-code files from the backups taken before they were first
rewritten, removing each backup afterwards. Directories are searched the same
way process searches them; files without a backup are left alone.

Examples:
  gobricklayer restore part.gcode
  gobricklayer restore exports/`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, exclude)
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns to skip")

	return cmd
}

func runRestore(cmd *cobra.Command, args, exclude []string) error {
	cfg, workDir, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	files, err := runner.Discover(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   cfg.Extensions,
		ExcludeGlobs: append(cfg.Ignore, exclude...),
	})
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	logger := logging.NewInteractive()
	backups := cfg.BackupConfig()
	// Restoring does not depend on backups being enabled for new writes.
	backups.Enabled = true

	restored, failed := 0, 0
	for _, path := range files {
		ok, err := fsutil.RestoreBackup(ctx, path, backups)
		switch {
		case err != nil:
			failed++
			logger.Error("restore failed", logging.FieldPath, path, logging.FieldError, err)
		case ok:
			restored++
			logger.Info("restored", logging.FieldPath, path, logging.FieldBackup, backups.Path(path))
		default:
			logging.FromContext(ctx).Debug("no backup", logging.FieldPath, path)
		}
	}

	logger.Info(fmt.Sprintf("%d of %d files restored", restored, len(files)))

	if failed > 0 {
		return ErrProcessingFailed
	}
	return nil
}
