package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/logging"
	"github.com/yaklabco/gobricklayer/internal/watch"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

func newWatchCommand() *cobra.Command {
	flags := &rewriteFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Rewrite G-code files as they are saved",
		Long: `Watch directories, typically a slicer's export folder, and rewrite
G-code files as they are created or saved. A file is processed once it has
been quiet for the debounce interval, so slicers that write in several
chunks are handled once. Our own rewrites carry provenance comments and are
skipped, so the watcher never reprocesses its output.

Runs until interrupted.

Examples:
  gobricklayer watch ~/Prints/exports
  gobricklayer watch --debounce 2s --format table .`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags, debounce)
		},
	}

	addRewriteFlags(cmd, flags)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce,
		"how long a file must be quiet before it is processed")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *rewriteFlags, debounce time.Duration) error {
	if debounce <= 0 {
		return fmt.Errorf("%w: --debounce must be positive", ErrUsage)
	}

	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return err
	}

	cfg, workDir, err := loadSettings(cmd, cliCfg)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, cfg, workDir)
	if err != nil {
		return err
	}
	defer s.close()

	ignore, err := runner.CompileGlobs(cfg.Ignore)
	if err != nil {
		return err
	}

	rep, err := newReporter(cmd, cfg, flags.verbose, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for i, dir := range dirs {
		if !filepath.IsAbs(dir) {
			dirs[i] = filepath.Join(workDir, dir)
		}
	}

	logger := logging.FromContext(cmd.Context())

	handle := func(ctx context.Context, paths []string) {
		result, err := s.runner.RunFiles(ctx, paths, s.runOpts)
		if err != nil && ctx.Err() == nil {
			logger.Error("run failed", logging.FieldFiles, paths, logging.FieldError, err)
		}
		if result == nil {
			return
		}
		logRun(ctx, result)
		if _, err := rep.Report(ctx, result); err != nil {
			logger.Error("report failed", logging.FieldError, err)
		}
	}

	w, err := watch.New(watch.Options{
		Dirs:       dirs,
		Extensions: cfg.Extensions,
		Ignore:     ignore,
		Debounce:   debounce,
		Logger:     logger,
	}, handle)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.NewInteractive().Info("watching for G-code", logging.FieldPaths, w.Dirs())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}

	stats := w.Stats()
	logger.Debug("watch stopped",
		"events", stats.Events,
		"batches", stats.Batches,
		logging.FieldFiles, stats.Files,
	)
	return nil
}
