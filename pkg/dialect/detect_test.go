package dialect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

func lines(text ...string) []gcode.Line {
	return gcode.SplitLines([]byte(strings.Join(text, "\n") + "\n"))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []gcode.Line
		want  dialect.Dialect
	}{
		{
			name:  "orca markers",
			input: lines("; CHANGE_LAYER", "; Z_HEIGHT: 0.2", "; FEATURE: Inner wall"),
			want:  dialect.Orca,
		},
		{
			name:  "prusa markers",
			input: lines(";LAYER_CHANGE", ";Z:0.2", ";HEIGHT:0.2", ";TYPE:Perimeter"),
			want:  dialect.Prusa,
		},
		{
			name:  "cura markers",
			input: lines(";FLAVOR:Marlin", ";LAYER:0", ";TYPE:WALL-INNER"),
			want:  dialect.Cura,
		},
		{
			name:  "feature markers without layer marker fall back to generic",
			input: lines("G1 Z0.2", "; FEATURE: Inner wall", "G1 X1 Y1 E1"),
			want:  dialect.Generic,
		},
		{
			name:  "no markers at all",
			input: lines("G28", "G1 X1 Y1"),
			want:  dialect.Generic,
		},
		{
			name:  "markers trailing a command do not vote",
			input: lines("G1 X1 Y1 ;LAYER:1", "M117 ;LAYER:2"),
			want:  dialect.Generic,
		},
		{
			name:  "indented markers vote",
			input: lines("  ;LAYER:0", "\t;TYPE:WALL-INNER"),
			want:  dialect.Cura,
		},
		{
			name:  "empty file",
			input: nil,
			want:  dialect.Generic,
		},
		{
			name: "generator header outweighs stray markers",
			input: lines("; generated by PrusaSlicer 2.7.1", ";LAYER_CHANGE",
				"; CHANGE_LAYER", "; Z_HEIGHT: 0.2", "; FEATURE: Inner wall"),
			want: dialect.Prusa,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dialect.Detect(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	input := lines("; CHANGE_LAYER")
	assert.Equal(t, dialect.Orca, dialect.Resolve(dialect.Auto, input))
	assert.Equal(t, dialect.Orca, dialect.Resolve("", input))
	assert.Equal(t, dialect.Cura, dialect.Resolve(dialect.Cura, input))
}

func TestParse(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]dialect.Dialect{
		"":            dialect.Auto,
		"auto":        dialect.Auto,
		"Orca":        dialect.Orca,
		"bambustudio": dialect.Orca,
		"prusaslicer": dialect.Prusa,
		"cura":        dialect.Cura,
		" generic ":   dialect.Generic,
	} {
		got, err := dialect.Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := dialect.Parse("simplify3d")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	input := lines(
		"; CHANGE_LAYER",
		"; Z_HEIGHT: 0.2",
		"; start printing object, unique label id: 1",
		"; FEATURE: Outer wall",
		"; FEATURE: Inner wall",
		"; CHANGE_LAYER",
		"; Z_HEIGHT: 0.4",
		"; FEATURE: Inner wall",
		"; stop printing object, unique label id: 1",
	)

	survey := dialect.Inspect(input, dialect.For(dialect.Orca))

	assert.Equal(t, 2, survey.Layers)
	assert.Equal(t, []string{"Inner wall", "Outer wall"}, survey.Features)
	assert.Equal(t, 1, survey.Objects)
}

func TestInspect_GenericCountsZMoves(t *testing.T) {
	t.Parallel()

	input := lines("G1 Z0.2 F7800", "G1 X1 Y1 E1", "G1 Z0.4", "G1 Zabc", "G1 X1 Z0.6")
	survey := dialect.Inspect(input, dialect.For(dialect.Generic))

	assert.Equal(t, 2, survey.Layers)
}
