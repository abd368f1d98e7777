// Package gcode tokenizes slicer G-code into typed lines and commands.
//
// The tokenizer is deliberately forgiving: every byte of the input survives a
// SplitLines/JoinLines round trip, and a line that cannot be understood is
// still a Line, just one whose Command reports itself as malformed.
package gcode

import "strings"

// Line endings recognised by SplitLines.
const (
	EOLUnix    = "\n"
	EOLWindows = "\r\n"
)

// Line is a single input line and its original terminator.
type Line struct {
	// Num is the 1-based ordinal of the line in the input.
	Num int

	// Text is the line content without its terminator.
	Text string

	// EOL is the terminator that followed the line: "\n", "\r\n", or ""
	// for a final line without a trailing newline.
	EOL string
}

// SplitLines splits content into lines, keeping each line's terminator so
// JoinLines can reproduce the input byte for byte.
func SplitLines(content []byte) []Line {
	if len(content) == 0 {
		return []Line{}
	}

	text := string(content)
	lines := make([]Line, 0, strings.Count(text, "\n")+1)
	num := 1

	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			lines = append(lines, Line{Num: num, Text: text})
			break
		}

		body, eol := text[:idx], EOLUnix
		if strings.HasSuffix(body, "\r") {
			body, eol = body[:len(body)-1], EOLWindows
		}

		lines = append(lines, Line{Num: num, Text: body, EOL: eol})
		text = text[idx+1:]
		num++
	}

	return lines
}

// JoinLines concatenates lines with their own terminators.
func JoinLines(lines []Line) []byte {
	size := 0
	for _, line := range lines {
		size += len(line.Text) + len(line.EOL)
	}

	var builder strings.Builder
	builder.Grow(size)
	for _, line := range lines {
		builder.WriteString(line.Text)
		builder.WriteString(line.EOL)
	}

	return []byte(builder.String())
}

// DominantEOL returns the terminator used by the majority of lines.
// Files with no terminated lines default to "\n".
func DominantEOL(lines []Line) string {
	var unix, windows int
	for _, line := range lines {
		switch line.EOL {
		case EOLUnix:
			unix++
		case EOLWindows:
			windows++
		}
	}
	if windows > unix {
		return EOLWindows
	}
	return EOLUnix
}

// Texts returns the text of each line, without terminators.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.Text
	}
	return out
}
