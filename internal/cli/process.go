package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gobricklayer/internal/logging"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

func newProcessCommand() *cobra.Command {
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "process [paths...|-]",
		Short: "Rewrite G-code files",
		Long:  processLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, flags)
		},
	}

	addRewriteFlags(cmd, flags)

	return cmd
}

const processLongDescription = `Rewrite sliced G-code so alternating inner-wall segments are lifted
and their extrusion adjusted.

By default, processes all .gcode, .gco and .g files in the current directory
and subdirectories. Files are rewritten in place after a backup is taken;
files that were already processed are skipped.

Pass "-" to read G-code from standard input and write the result to
standard output, for use as a slicer post-processing script.

Examples:
  gobricklayer process                      # Process current directory
  gobricklayer process exports/             # Process a directory
  gobricklayer process part.gcode           # Process a single file
  gobricklayer process --dry-run --format diff part.gcode
  gobricklayer process --layer-height 0.28 --extrusion-multiplier 1.05 part.gcode
  gobricklayer process - < part.gcode > part.bricked.gcode`

func runProcess(cmd *cobra.Command, args []string, flags *rewriteFlags) error {
	stdin := slices.Contains(args, stdinPath)
	if stdin && len(args) > 1 {
		return fmt.Errorf("%w: %q cannot be combined with other paths", ErrUsage, stdinPath)
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

	if stdin {
		return runFilter(cmd, s, flags.verbose)
	}

	logger := logging.FromContext(cmd.Context())
	opts := s.runOpts
	opts.Paths = args

	logger.Debug("starting run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
		logging.FieldDryRun, cfg.DryRun,
	)

	result, err := s.runner.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	logRun(cmd.Context(), result)

	rep, err := newReporter(cmd, cfg, flags.verbose, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := rep.Report(cmd.Context(), result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrProcessingFailed
	}
	return nil
}

// runFilter rewrites standard input to standard output. The report goes to
// stderr so stdout carries only G-code; in dry-run mode nothing but the
// report is written, to stdout.
func runFilter(cmd *cobra.Command, s *session, verbose bool) error {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("%w: refusing to read G-code from a terminal", ErrUsage)
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("%w: read stdin: %w", pipeline.ErrReadFailure, err)
	}

	opts := s.runOpts.Pipeline
	opts.SkipTypeCheck = true
	opts.Diff = opts.Diff || opts.DryRun

	pr, err := s.pipeline.ProcessBytes(cmd.Context(), stdinPath, content, opts)
	if err != nil {
		return fmt.Errorf("process stdin: %w", err)
	}

	reportTo := cmd.ErrOrStderr()
	if s.cfg.DryRun {
		reportTo = cmd.OutOrStdout()
	} else {
		output := content
		if pr.Result != nil && !pr.Skipped() {
			output = pr.Content()
		}
		if _, err := cmd.OutOrStdout().Write(output); err != nil {
			return fmt.Errorf("%w: write stdout: %w", pipeline.ErrWriteFailure, err)
		}
		pr.Written = pr.Modified
	}

	result := runner.NewResult(runner.FileOutcome{Path: stdinPath, Result: pr})
	logRun(cmd.Context(), result)

	rep, err := newReporter(cmd, s.cfg, verbose, reportTo)
	if err != nil {
		return err
	}
	if _, err := rep.Report(cmd.Context(), result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}
