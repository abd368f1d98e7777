package gcode

import (
	"strconv"
	"strings"
)

// Field is a single letter-addressed word such as X12.5 or E.034.
type Field struct {
	// Letter is the upper-case address letter.
	Letter byte

	// Raw is the value text following the letter, exactly as written.
	Raw string

	// Value is the parsed value. Only meaningful when Valid is true.
	Value float64

	// Valid reports whether Raw is a plain decimal number.
	Valid bool

	// Start and End delimit the whole word (letter and value) in the line text.
	Start, End int
}

// Malformed reports whether the field carries a value that is not a number.
// A bare letter (e.g. "G28 X") is a flag, not a malformed field.
func (f Field) Malformed() bool {
	return f.Raw != "" && !f.Valid
}

// Command is the tokenized form of one line.
type Command struct {
	// Opcode is the normalised command word ("G1", "M104", "EXCLUDE_OBJECT_START"),
	// or "" for blank and comment-only lines.
	Opcode string

	// Fields are the letter-addressed words following the opcode, in order.
	Fields []Field

	// Params holds KEY=VALUE words used by firmware macros.
	Params map[string]string

	// Comment is the text after the first ';', with surrounding space trimmed.
	Comment string

	// HasComment reports whether the line contains a ';' comment at all.
	HasComment bool

	// CodeEnd is the byte offset where the code part of the line ends.
	CodeEnd int
}

// Parse tokenizes a single line of G-code.
func Parse(text string) Command {
	cmd := Command{CodeEnd: len(text)}

	if idx := strings.IndexByte(text, ';'); idx >= 0 {
		cmd.HasComment = true
		cmd.Comment = strings.TrimSpace(text[idx+1:])
		cmd.CodeEnd = idx
	}

	code := text[:cmd.CodeEnd]
	pos := 0
	first := true

	for pos < len(code) {
		// Skip whitespace.
		for pos < len(code) && isSpace(code[pos]) {
			pos++
		}
		if pos >= len(code) {
			break
		}

		// Parenthesised comments are skipped entirely.
		if code[pos] == '(' {
			end := strings.IndexByte(code[pos:], ')')
			if end < 0 {
				break
			}
			pos += end + 1
			continue
		}

		start := pos
		for pos < len(code) && !isSpace(code[pos]) && code[pos] != '(' {
			pos++
		}
		word := code[start:pos]

		if first {
			cmd.Opcode = normalizeOpcode(word)
			first = false
			continue
		}

		if key, value, ok := strings.Cut(word, "="); ok {
			if cmd.Params == nil {
				cmd.Params = make(map[string]string)
			}
			cmd.Params[strings.ToUpper(key)] = value
			continue
		}

		cmd.Fields = append(cmd.Fields, parseField(word, start, pos))
	}

	return cmd
}

func parseField(word string, start, end int) Field {
	field := Field{
		Letter: upper(word[0]),
		Raw:    word[1:],
		Start:  start,
		End:    end,
	}
	if isDecimal(field.Raw) {
		if v, err := strconv.ParseFloat(field.Raw, 64); err == nil {
			field.Value = v
			field.Valid = true
		}
	}
	return field
}

// isDecimal reports whether s is a signed decimal such as "-1", "2.", ".05"
// or "+0.4". ParseFloat alone would also take "inf", "NaN" and hex floats.
func isDecimal(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits, dot := 0, false
	for i := range len(s) {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// normalizeOpcode upper-cases the command word and strips leading zeros from
// the numeric part of G/M/T codes, so "g01" and "G1" compare equal.
func normalizeOpcode(word string) string {
	word = strings.ToUpper(word)
	if len(word) < 2 {
		return word
	}
	switch word[0] {
	case 'G', 'M', 'T':
	default:
		return word
	}
	digits := word[1:]
	if _, err := strconv.Atoi(digits); err != nil {
		return word
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return word[:1] + trimmed
}

// Field returns the first field addressed by letter.
func (c Command) Field(letter byte) (Field, bool) {
	letter = upper(letter)
	for _, f := range c.Fields {
		if f.Letter == letter {
			return f, true
		}
	}
	return Field{}, false
}

// Has reports whether the command carries a field for letter.
func (c Command) Has(letter byte) bool {
	_, ok := c.Field(letter)
	return ok
}

// Float returns the parsed value of the field for letter. The second result
// is false when the field is missing or malformed.
func (c Command) Float(letter byte) (float64, bool) {
	f, ok := c.Field(letter)
	if !ok || !f.Valid {
		return 0, false
	}
	return f.Value, true
}

// Malformed returns the first field whose value is not a number.
func (c Command) Malformed() (Field, bool) {
	for _, f := range c.Fields {
		if f.Malformed() {
			return f, true
		}
	}
	return Field{}, false
}

// CommentOnly reports whether the line holds a ';' comment and no command.
func (c Command) CommentOnly() bool {
	return c.Opcode == "" && c.HasComment
}

// IsMotion reports whether the command is a linear or arc move.
func (c Command) IsMotion() bool {
	switch c.Opcode {
	case "G0", "G1", "G2", "G3":
		return true
	default:
		return false
	}
}

// HasXY reports whether the move carries a planar axis.
func (c Command) HasXY() bool {
	return c.Has('X') || c.Has('Y')
}

// OnlyAxis reports whether letter is the only axis the command moves.
// The feed rate does not count as an axis.
func (c Command) OnlyAxis(letter byte) bool {
	letter = upper(letter)
	found := false
	for _, f := range c.Fields {
		switch f.Letter {
		case 'F':
			continue
		case letter:
			found = true
		default:
			return false
		}
	}
	return found
}

// ReplaceField rewrites the value of the first field addressed by letter in
// text, which must be the line the command was parsed from. Everything
// outside the field is preserved.
func (c Command) ReplaceField(text string, letter byte, value string) (string, bool) {
	f, ok := c.Field(letter)
	if !ok || f.End > len(text) {
		return text, false
	}
	return text[:f.Start] + string(f.Letter) + value + text[f.End:], true
}

// ProvenanceTag marks the comments of lines written or adjusted by
// gobricklayer.
const ProvenanceTag = "bricklayer:"

// Tagged reports whether the command carries the provenance tag.
func (c Command) Tagged() bool {
	return c.HasComment && strings.Contains(c.Comment, ProvenanceTag)
}

// FormatZ formats a height with the three decimals used for Z commands.
func FormatZ(z float64) string {
	return strconv.FormatFloat(z, 'f', 3, 64)
}

// FormatE formats an extrusion amount with five decimals.
func FormatE(e float64) string {
	return strconv.FormatFloat(e, 'f', 5, 64)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
