package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
)

// FormatWarning formats an engine warning as "path:line  warning  message".
func (s *Styles) FormatWarning(path string, w bricklayer.Warning) string {
	location := s.FilePath.Render(path)
	if w.Line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d", w.Line))
	}
	return fmt.Sprintf("  %s  %s  %s\n", location, s.Warning.Render("warning"), s.Message.Render(w.Message))
}

// FormatError formats a per-file failure.
func (s *Styles) FormatError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render("error: "+err.Error()))
}

// FormatFileHeader formats the line introducing a file in text output.
func (s *Styles) FormatFileHeader(path, status string) string {
	return s.FilePath.Render(path) + s.Dim.Render(" ("+status+")")
}

// FormatSegment formats a segment decision for verbose output.
func (s *Styles) FormatSegment(ev bricklayer.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    line %d  layer %d  segment #%d  ", ev.Line, ev.Layer, ev.Segment)
	if ev.Shifted {
		b.WriteString(s.Shifted.Render("shifted"))
	} else {
		b.WriteString(s.Reset.Render("base"))
	}
	b.WriteByte('\n')
	return b.String()
}
