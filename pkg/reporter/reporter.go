// Package reporter renders run results for people and machines.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result. It returns the
	// number of files that were, or in dry-run mode would be, rewritten.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts, false), nil
	case FormatSummary:
		return NewTableReporter(opts, true), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to workingDir when that is shorter to read.
// Paths needing more than two parent traversals fall back to the base name.
func displayPath(path, workingDir string) string {
	if path == "-" || path == "" {
		return "<stdin>"
	}
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	if workingDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		workingDir = cwd
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// terminalWidth returns the width of writer when it is a terminal, or 0.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return 0
}

// changedFiles counts files that were or would be rewritten.
func changedFiles(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesModified
}
