package pretty_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gobricklayer/internal/ui/pretty"
	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
)

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", &buf))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "buffers are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", &buf))
	assert.True(t, pretty.IsColorEnabled("always", &buf))
}

func TestNoColorStyles_Plain(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "text", styles.Error.Render("text"))
	assert.Equal(t, "text", styles.Shifted.Render("text"))
}

func TestFormatWarning(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatWarning("part.gcode", bricklayer.Warning{Line: 10, Message: "malformed E value"})
	assert.Equal(t, "  part.gcode:10  warning  malformed E value\n", got)

	got = styles.FormatWarning("part.gcode", bricklayer.Warning{Message: "no internal perimeters found"})
	assert.Equal(t, "  part.gcode  warning  no internal perimeters found\n", got)
}

func TestFormatError(t *testing.T) {
	styles := pretty.NewStyles(false)

	got := styles.FormatError("part.gcode", errors.New("permission denied"))
	assert.Equal(t, "part.gcode: error: permission denied\n", got)
}

func TestFormatSegment(t *testing.T) {
	styles := pretty.NewStyles(false)

	shifted := styles.FormatSegment(bricklayer.Event{Kind: bricklayer.EventSegmentStarted, Line: 7, Layer: 2, Segment: 1, Shifted: true})
	assert.Equal(t, "    line 7  layer 2  segment #1  shifted\n", shifted)

	base := styles.FormatSegment(bricklayer.Event{Kind: bricklayer.EventSegmentStarted, Line: 9, Layer: 2, Segment: 2})
	assert.Contains(t, base, "base")
}
