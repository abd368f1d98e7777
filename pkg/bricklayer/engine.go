package bricklayer

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// cancelCheckInterval is how many lines are scanned between context checks.
const cancelCheckInterval = 4096

// Engine rewrites G-code according to its Options. An Engine is safe for
// concurrent use; every call to Process owns its own scan state.
type Engine struct {
	opts   Options
	logger *log.Logger
}

// New validates opts and returns an Engine. A nil logger discards output.
func New(opts Options, logger *log.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	// Validate accepted the name, so aliases resolve here.
	opts.Dialect, _ = dialect.Parse(string(opts.Dialect))
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{opts: opts, logger: logger}, nil
}

// Options returns the engine's options.
func (e *Engine) Options() Options {
	return e.opts
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *log.Logger {
	return e.logger
}

// WithLogger returns a copy of the engine that logs to logger.
func (e *Engine) WithLogger(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{opts: e.opts, logger: logger}
}

// Process runs the dialect detection pre-pass and the single rewrite pass
// over lines. The input slice is not modified.
func (e *Engine) Process(ctx context.Context, lines []gcode.Line) (*Result, error) {
	d := dialect.Resolve(e.opts.Dialect, lines)
	markers := dialect.For(d)
	survey := dialect.Inspect(lines, markers)

	logger := e.logger.With("dialect", d)
	logger.Debug("surveyed input",
		"lines", len(lines),
		"layers", survey.Layers,
		"features", len(survey.Features),
		"objects", survey.Objects,
	)

	result := &Result{
		Dialect: d,
		Survey:  survey,
	}

	if !e.opts.Reprocess && alreadyProcessed(lines) {
		result.Lines = lines
		result.Origins = identity(len(lines))
		result.AlreadyProcessed = true
		result.Warnings = append(result.Warnings, Warning{
			Message: "input already carries bricklayer comments; skipped",
		})
		result.Stats.Warnings = len(result.Warnings)
		logger.Warn("already processed, skipping")
		return result, nil
	}

	p := &pass{
		opts:      e.opts,
		markers:   markers,
		lastLayer: survey.Layers - 1,
		lines:     lines,
		eol:       gcode.DominantEOL(lines),
		logger:    logger,
		result:    result,
	}
	result.Lines = make([]gcode.Line, 0, len(lines)+len(lines)/16)
	result.Origins = make([]int, 0, cap(result.Lines))

	for i := range lines {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("processing cancelled: %w", err)
			}
		}
		p.step(i)
	}
	p.closeAtEOF()

	if result.Stats.Regions == 0 {
		p.warn(0, "no internal perimeters found")
	}

	for i := range result.Lines {
		result.Lines[i].Num = i + 1
	}
	result.Stats.Warnings = len(result.Warnings)

	logger.Debug("pass complete",
		"layers", result.Stats.Layers,
		"regions", result.Stats.Regions,
		"segments", result.Stats.Segments,
		"shifted", result.Stats.ShiftedSegments,
		"adjusted", result.Stats.AdjustedExtrusions,
	)

	return result, nil
}

// Process is a convenience wrapper that builds an Engine and runs it once.
func Process(ctx context.Context, lines []gcode.Line, opts Options, logger *log.Logger) (*Result, error) {
	engine, err := New(opts, logger)
	if err != nil {
		return nil, err
	}
	return engine.Process(ctx, lines)
}

func alreadyProcessed(lines []gcode.Line) bool {
	for _, line := range lines {
		if !hasTagText(line.Text) {
			continue
		}
		if gcode.Parse(line.Text).Tagged() {
			return true
		}
	}
	return false
}

func identity(n int) []int {
	origins := make([]int, n)
	for i := range origins {
		origins[i] = i
	}
	return origins
}
