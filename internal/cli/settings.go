package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/configloader"
	"github.com/yaklabco/gobricklayer/internal/logging"
	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/config"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
	"github.com/yaklabco/gobricklayer/pkg/reporter"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// rewriteFlags are shared by process and watch.
type rewriteFlags struct {
	layerHeight          float64
	extrusionMultiplier  float64
	firstLayerMultiplier float64
	lastLayerMultiplier  float64
	shift                string
	parity               string
	extrusionPolicy      string
	objectEnd            string
	travel               string
	dialect              string
	noRestoreZ           bool
	dryRun               bool
	reprocess            bool
	noBackups            bool
	verbose              bool
	jobs                 int
	format               string
	logFile              string
	exclude              []string
	extensions           []string
}

func addRewriteFlags(cmd *cobra.Command, flags *rewriteFlags) {
	defaults := bricklayer.DefaultOptions()
	f := cmd.Flags()

	f.Float64Var(&flags.layerHeight, "layer-height", defaults.LayerHeight, "nominal layer height in mm")
	f.Float64Var(&flags.extrusionMultiplier, "extrusion-multiplier", defaults.ExtrusionMultiplier,
		"extrusion scale for shifted segments")
	f.Float64Var(&flags.firstLayerMultiplier, "first-layer-multiplier", defaults.FirstLayerMultiplier,
		"extrusion scale for shifted segments on the first layer")
	f.Float64Var(&flags.lastLayerMultiplier, "last-layer-multiplier", defaults.LastLayerMultiplier,
		"extrusion scale for shifted segments on the last layer")
	f.StringVar(&flags.shift, "shift", string(defaults.Shift), "shift policy: half-layer, full-layer")
	f.StringVar(&flags.parity, "parity", string(defaults.Parity), "parity policy: segment, segment-plus-layer")
	f.StringVar(&flags.extrusionPolicy, "extrusion-policy", string(defaults.Extrusion),
		"extrusion policy: first-last-override, flat")
	f.StringVar(&flags.objectEnd, "object-end", string(defaults.ObjectEnd),
		"end-of-object handling: close-region, ignore")
	f.StringVar(&flags.travel, "travel", string(defaults.Travel),
		"moves that end a segment: feed-rate, planar")
	f.StringVar(&flags.dialect, "dialect", "auto", "slicer dialect: auto, orca, prusa, cura, generic")
	f.BoolVar(&flags.noRestoreZ, "no-restore-z", false, "do not restore Z after a shifted region")
	f.BoolVar(&flags.dryRun, "dry-run", false, "show what would change without writing")
	f.BoolVar(&flags.reprocess, "reprocess", false, "rewrite files that were already processed")
	f.BoolVar(&flags.noBackups, "no-backups", false, "disable backup creation")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "list every segment decision")
	f.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	f.StringVar(&flags.format, "format", "text", "output format: text, table, json, diff, summary")
	f.StringVar(&flags.logFile, "log-file", "", "append a diagnostic log to this file")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "glob patterns to skip")
	f.StringSliceVar(&flags.extensions, "extensions", nil, "file extensions to pick up in directories")
}

// cliConfig maps the flags that were set onto a config overlay. Unset flags
// stay zero so file and environment settings show through.
func (flags *rewriteFlags) cliConfig(cmd *cobra.Command) (*config.Config, error) {
	changed := cmd.Flags().Changed
	cfg := &config.Config{}

	floats := []struct {
		name  string
		value float64
		dst   *float64
	}{
		{"layer-height", flags.layerHeight, &cfg.LayerHeight},
		{"extrusion-multiplier", flags.extrusionMultiplier, &cfg.ExtrusionMultiplier},
		{"first-layer-multiplier", flags.firstLayerMultiplier, &cfg.FirstLayerMultiplier},
		{"last-layer-multiplier", flags.lastLayerMultiplier, &cfg.LastLayerMultiplier},
	}
	for _, fl := range floats {
		if !changed(fl.name) {
			continue
		}
		if fl.value <= 0 {
			return nil, fmt.Errorf("%w: --%s must be positive, got %g", ErrUsage, fl.name, fl.value)
		}
		*fl.dst = fl.value
	}

	strs := []struct {
		name  string
		value string
		dst   *string
	}{
		{"shift", flags.shift, &cfg.ShiftPolicy},
		{"parity", flags.parity, &cfg.ParityPolicy},
		{"extrusion-policy", flags.extrusionPolicy, &cfg.ExtrusionPolicy},
		{"object-end", flags.objectEnd, &cfg.ObjectEndPolicy},
		{"travel", flags.travel, &cfg.TravelPolicy},
		{"dialect", flags.dialect, &cfg.Dialect},
		{"log-file", flags.logFile, &cfg.LogFile},
	}
	for _, fl := range strs {
		if changed(fl.name) {
			*fl.dst = fl.value
		}
	}

	if flags.noRestoreZ {
		cfg.RestoreZ = config.Bool(false)
	}
	if changed("format") {
		format := config.OutputFormat(flags.format)
		if !configloader.IsValidFormat(format) {
			return nil, fmt.Errorf("%w: unknown format %q", ErrUsage, flags.format)
		}
		cfg.Format = format
	}
	if flags.jobs < 0 {
		return nil, fmt.Errorf("%w: --jobs must not be negative", ErrUsage)
	}

	cfg.DryRun = flags.dryRun
	cfg.Reprocess = flags.reprocess
	cfg.NoBackups = flags.noBackups
	cfg.Jobs = flags.jobs
	cfg.Ignore = flags.exclude
	cfg.Extensions = flags.extensions

	return cfg, nil
}

// loadSettings resolves the configuration for a command. cliCfg may be nil.
func loadSettings(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(cmd.Context())

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, workDir, nil
}

// session holds everything one process or watch invocation shares between
// files.
type session struct {
	cfg      *config.Config
	workDir  string
	closeLog func() error
	pipeline *pipeline.Pipeline
	runner   *runner.Runner
	runOpts  runner.Options
}

func newSession(cmd *cobra.Command, cfg *config.Config, workDir string) (*session, error) {
	debug, _ := cmd.Flags().GetBool("debug")

	diag, closeLog, err := diagnosticLogger(cfg, debug, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	engine, err := bricklayer.New(cfg.EngineOptions(), diag)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	p := pipeline.New(engine)
	s := &session{
		cfg:      cfg,
		workDir:  workDir,
		closeLog: closeLog,
		pipeline: p,
		runner:   runner.New(p),
		runOpts: runner.Options{
			WorkingDir:   workDir,
			Extensions:   cfg.Extensions,
			ExcludeGlobs: cfg.Ignore,
			Jobs:         cfg.Jobs,
			Pipeline: pipeline.Options{
				DryRun: cfg.DryRun,
				Diff:   cfg.Format == config.FormatDiff,
				Backup: cfg.BackupConfig(),
			},
		},
	}

	cmd.SetContext(logging.WithDiagnostics(cmd.Context(), diag))

	opts := engine.Options()
	diag.Info("settings",
		logging.FieldLayerHeight, opts.LayerHeight,
		logging.FieldMultiplier, opts.ExtrusionMultiplier,
		"first_layer_multiplier", opts.FirstLayerMultiplier,
		"last_layer_multiplier", opts.LastLayerMultiplier,
		logging.FieldShift, opts.Shift,
		logging.FieldParity, opts.Parity,
		"travel", opts.Travel,
		logging.FieldDialect, opts.Dialect,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	return s, nil
}

// diagnosticLogger returns the logger the engine writes layer and segment
// events to. With a log file the events go there, and to stderr as well
// under --debug. Without one they only show under --debug.
func diagnosticLogger(cfg *config.Config, debug bool, stderr io.Writer) (*log.Logger, func() error, error) {
	noop := func() error { return nil }

	if cfg.LogFile == "" {
		if debug {
			return logging.Default(), noop, nil
		}
		return log.New(io.Discard), noop, nil
	}

	var console io.Writer
	if debug {
		console = stderr
	}
	logger, closeFn, err := logging.NewFile(cfg.LogFile, "debug", console)
	if err != nil {
		return nil, nil, err
	}
	return logger, closeFn, nil
}

func (s *session) close() {
	if err := s.closeLog(); err != nil {
		logging.Default().Warn("close log file", logging.FieldError, err)
	}
}

// logRun records the outcome of a run in the diagnostic log attached to ctx.
func logRun(ctx context.Context, result *runner.Result) {
	diag := logging.Diagnostics(ctx)
	for _, file := range result.Files {
		if file.Error != nil {
			diag.Error("file failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
		}
	}

	stats := result.Stats
	diag.Info("summary",
		logging.FieldFilesDiscovered, stats.FilesDiscovered,
		logging.FieldFilesProcessed, stats.FilesProcessed,
		logging.FieldFilesModified, stats.FilesModified,
		logging.FieldFilesSkipped, stats.FilesSkipped,
		logging.FieldFilesErrored, stats.FilesErrored,
		logging.FieldSegments, stats.ShiftedSegments,
		"layers", stats.Layers,
		logging.FieldWarnings, stats.Warnings,
	)
}

func newReporter(cmd *cobra.Command, cfg *config.Config, verbose bool, out io.Writer) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", configloader.ErrInvalidConfig, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	workDir, _ := os.Getwd()

	return reporter.New(reporter.Options{
		Writer:      out,
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     verbose,
		DryRun:      cfg.DryRun,
		WorkingDir:  workDir,
	})
}
