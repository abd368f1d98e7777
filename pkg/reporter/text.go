package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gobricklayer/internal/ui/pretty"
	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No G-code files found."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.DryRun))
	}

	return changedFiles(result), nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) {
	path := displayPath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprint(r.bw, r.styles.FormatError(path, file.Error))
		return
	}
	pr := file.Result
	if pr == nil {
		return
	}

	var warnings []bricklayer.Warning
	if pr.Result != nil {
		warnings = pr.Warnings
	}

	quiet := !pr.Modified && !pr.Skipped() && len(warnings) == 0
	if quiet && !r.opts.Verbose {
		return
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, pr.Summary()))
	for _, w := range warnings {
		fmt.Fprint(r.bw, r.styles.FormatWarning(path, w))
	}

	if r.opts.Verbose && pr.Result != nil {
		for _, ev := range pr.Events {
			if ev.Kind == bricklayer.EventSegmentStarted {
				fmt.Fprint(r.bw, r.styles.FormatSegment(ev))
			}
		}
	}
}
