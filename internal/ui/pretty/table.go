package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	numberColumns    = 4 // LAYERS, SEGMENTS, SHIFTED, ADJUSTED
	numberWidth      = 8
	minFileWidth     = 20
	minDialectWidth  = 7
	minStatusWidth   = 12
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
)

// rowKind picks the row colour.
type rowKind int

const (
	rowNormal rowKind = iota
	rowWarning
	rowSkipped
	rowError
)

// TableRow is one file in the run table.
type TableRow struct {
	File     string
	Dialect  string
	Layers   int
	Segments int
	Shifted  int
	Adjusted int
	Status   string
	kind     rowKind
}

// RowFromOutcome converts a runner outcome into a table row.
func RowFromOutcome(file runner.FileOutcome) TableRow {
	row := TableRow{File: file.Path, Dialect: "-"}

	switch {
	case file.Error != nil:
		row.Status = "error"
		row.kind = rowError
		return row
	case file.Result == nil:
		row.Status = "unknown"
		return row
	}

	pr := file.Result
	row.Status = pr.Summary()
	if pr.Skipped() {
		row.Status = "skipped"
		row.kind = rowSkipped
	}
	if pr.Result == nil {
		return row
	}

	row.Dialect = pr.Result.Dialect.String()
	row.Layers = pr.Result.Stats.Layers
	row.Segments = pr.Result.Stats.Segments
	row.Shifted = pr.Result.Stats.ShiftedSegments
	row.Adjusted = pr.Result.Stats.AdjustedExtrusions
	if pr.Result.Stats.Warnings > 0 && row.kind == rowNormal {
		row.kind = rowWarning
	}
	return row
}

// TableFormatter formats run results as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter. A non-positive termWidth
// falls back to a fixed default.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	file    int
	dialect int
	status  int
}

// FormatTable formats the per-file table for a run.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, file := range result.Files {
		rows = append(rows, RowFromOutcome(file))
	}
	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths) + "\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths) + "\n")
	}
	builder.WriteString(t.formatSeparator(widths, heavySeparator) + "\n")
	builder.WriteString(t.formatTotals(result.Stats, widths) + "\n")

	return builder.String()
}

// calculateColumnWidths sizes the text columns, then shrinks the file column
// until the table fits the terminal.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		dialect: minDialectWidth,
		status:  minStatusWidth,
	}

	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.dialect = max(widths.dialect, len(row.Dialect))
		widths.status = max(widths.status, len(row.Status))
	}

	if total := t.totalWidth(widths); total > t.termWidth {
		widths.file = max(minFileWidth, widths.file-(total-t.termWidth))
	}
	if total := t.totalWidth(widths); total > t.termWidth {
		widths.status = max(minStatusWidth, widths.status-(total-t.termWidth))
	}

	return widths
}

func (t *TableFormatter) totalWidth(widths columnWidths) int {
	return widths.file + widths.dialect + widths.status +
		numberColumns*numberWidth + tablePadding*(numberColumns+3)
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %*s  %*s  %*s  %*s  %-*s",
		widths.file, "FILE",
		widths.dialect, "DIALECT",
		numberWidth, "LAYERS",
		numberWidth, "SEGMENTS",
		numberWidth, "SHIFTED",
		numberWidth, "ADJUSTED",
		widths.status, "STATUS",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, t.totalWidth(widths)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %*d  %*d  %*d  %*d  %-*s",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.dialect, truncateString(row.Dialect, widths.dialect),
		numberWidth, row.Layers,
		numberWidth, row.Segments,
		numberWidth, row.Shifted,
		numberWidth, row.Adjusted,
		widths.status, truncateString(row.Status, widths.status),
	)
	return t.rowStyle(row.kind).Render(content)
}

func (t *TableFormatter) formatTotals(stats runner.Stats, widths columnWidths) string {
	label := strconv.Itoa(stats.FilesProcessed) + " files"
	content := fmt.Sprintf(" %-*s  %-*s  %*d  %*d  %*d  %*d  %-*s",
		widths.file, label,
		widths.dialect, "",
		numberWidth, stats.Layers,
		numberWidth, stats.Segments,
		numberWidth, stats.ShiftedSegments,
		numberWidth, stats.AdjustedExtrusions,
		widths.status, fmt.Sprintf("%d written", stats.FilesWritten),
	)
	return t.styles.Bold.Render(content)
}

func (t *TableFormatter) rowStyle(kind rowKind) lipgloss.Style {
	switch kind {
	case rowError:
		return t.styles.TableErrorRow
	case rowWarning:
		return t.styles.TableWarnRow
	case rowSkipped:
		return t.styles.TableSkipRow
	default:
		return lipgloss.NewStyle()
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
