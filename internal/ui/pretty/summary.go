package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files rewritten, 42 segments shifted in 120 layers, 2 warnings".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, dryRun bool) string {
	if stats.FilesModified == 0 {
		msg := s.Success.Render("Nothing to rewrite") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.Warnings > 0 {
			msg += ", " + s.Warning.Render(fmt.Sprintf("%d %s", stats.Warnings, plural(stats.Warnings, "warning", "warnings")))
		}
		return msg + "\n"
	}

	verb := "rewritten"
	count := stats.FilesWritten
	if dryRun {
		verb = "would be rewritten"
		count = stats.FilesModified
	}

	parts := []string{
		s.Success.Render(fmt.Sprintf("%d %s %s", count, plural(count, wordFile, wordFiles), verb)),
		fmt.Sprintf("%d %s shifted in %d layers", stats.ShiftedSegments,
			plural(stats.ShiftedSegments, "segment", "segments"), stats.Layers),
	}
	if stats.Warnings > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", stats.Warnings, plural(stats.Warnings, "warning", "warnings"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	row := func(label string, value int, style func(...string) string) {
		b.WriteString("  " + label + strings.Repeat(" ", max(1, 21-len(label))) + style(strconv.Itoa(value)) + "\n")
	}

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files processed:", stats.FilesProcessed, s.SummaryValue.Render)
	if stats.FilesWritten > 0 {
		row("Files rewritten:", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped:", stats.FilesSkipped, s.Dim.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed:", stats.FilesErrored, s.Failure.Render)
	}
	b.WriteString("\n")

	row("Layers:", stats.Layers, s.SummaryValue.Render)
	row("Segments:", stats.Segments, s.SummaryValue.Render)
	row("Shifted segments:", stats.ShiftedSegments, s.SummaryValue.Render)
	row("Adjusted extrusions:", stats.AdjustedExtrusions, s.SummaryValue.Render)
	row("Inserted lines:", stats.InsertedLines, s.SummaryValue.Render)
	if stats.Warnings > 0 {
		row("Warnings:", stats.Warnings, s.Warning.Render)
	}
	b.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		b.WriteString(s.Failure.Render("Completed with failures"))
	case stats.Warnings > 0:
		b.WriteString(s.Warning.Render("Completed with warnings"))
	default:
		b.WriteString(s.Success.Render("Completed"))
	}
	b.WriteString("\n")

	return b.String()
}
