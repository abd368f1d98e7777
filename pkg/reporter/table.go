package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gobricklayer/internal/ui/pretty"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// TableReporter formats results as a per-file table, optionally followed by
// a summary block.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	withBlock bool
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter. withBlock appends the
// detailed summary block used by the summary format.
func NewTableReporter(opts Options, withBlock bool) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	width := opts.TermWidth
	if width <= 0 {
		width = terminalWidth(opts.Writer)
	}

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, width),
		withBlock: withBlock,
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	display := *result
	display.Files = make([]runner.FileOutcome, len(result.Files))
	for i, file := range result.Files {
		file.Path = displayPath(file.Path, r.opts.WorkingDir)
		display.Files[i] = file
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(&display))

	switch {
	case r.withBlock:
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	case r.opts.ShowSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.DryRun))
	}

	return changedFiles(result), nil
}
