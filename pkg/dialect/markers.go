package dialect

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// LayerSource says how a dialect announces a new layer.
type LayerSource int

const (
	// LayerFromCommand treats a move whose first axis is Z as a layer change.
	LayerFromCommand LayerSource = iota

	// LayerFromComment uses a comment marker followed, within the lookahead
	// window, by a height-bearing comment.
	LayerFromComment

	// LayerFromCommentAndMove uses a comment marker followed, within the
	// lookahead window, by a move carrying Z.
	LayerFromCommentAndMove
)

// defaultLookahead is the number of lines after a layer marker searched for
// the layer height.
const defaultLookahead = 3

// Markers is the set of textual markers one dialect uses.
// Comment markers are matched against gcode.Command.Comment, which has the
// leading ';' and surrounding whitespace removed.
type Markers struct {
	Dialect Dialect

	// FeaturePrefix introduces a feature name ("FEATURE:", "TYPE:").
	FeaturePrefix string

	// InnerWall and OuterWall list the feature names of each wall kind.
	InnerWall []string
	OuterWall []string

	// Layer describes how layer changes are announced.
	Layer LayerSource

	// LayerMarker is the comment prefix announcing a layer change.
	LayerMarker string

	// HeightPrefix is the comment prefix carrying the layer's Z height.
	HeightPrefix string

	// Lookahead is the number of lines after LayerMarker searched for the height.
	Lookahead int

	// ObjectStart and ObjectEnd are comment prefixes delimiting one object.
	ObjectStart []string
	ObjectEnd   []string
}

// For returns the marker set of a dialect. Auto and unknown dialects get
// the generic set.
func For(d Dialect) Markers {
	switch d {
	case Orca:
		return Markers{
			Dialect:       Orca,
			FeaturePrefix: "FEATURE:",
			InnerWall:     []string{"Inner wall"},
			OuterWall:     []string{"Outer wall"},
			Layer:         LayerFromComment,
			LayerMarker:   "CHANGE_LAYER",
			HeightPrefix:  "Z_HEIGHT:",
			Lookahead:     defaultLookahead,
			ObjectStart:   []string{"start printing object"},
			ObjectEnd:     []string{"stop printing object"},
		}
	case Prusa:
		return Markers{
			Dialect:       Prusa,
			FeaturePrefix: "TYPE:",
			InnerWall:     []string{"Perimeter", "Internal perimeter"},
			OuterWall:     []string{"External perimeter"},
			Layer:         LayerFromComment,
			LayerMarker:   "LAYER_CHANGE",
			HeightPrefix:  "Z:",
			Lookahead:     defaultLookahead,
			ObjectStart:   []string{"printing object"},
			ObjectEnd:     []string{"stop printing object"},
		}
	case Cura:
		return Markers{
			Dialect:       Cura,
			FeaturePrefix: "TYPE:",
			InnerWall:     []string{"WALL-INNER"},
			OuterWall:     []string{"WALL-OUTER"},
			Layer:         LayerFromCommentAndMove,
			LayerMarker:   "LAYER:",
			Lookahead:     defaultLookahead + 2,
		}
	default:
		return Markers{
			Dialect:       Generic,
			FeaturePrefix: "FEATURE:",
			InnerWall:     []string{"Inner wall"},
			OuterWall:     []string{"Outer wall"},
			Layer:         LayerFromCommand,
			ObjectStart:   []string{"start printing object", "printing object"},
			ObjectEnd:     []string{"stop printing object"},
		}
	}
}

// Feature returns the feature name carried by a command's comment.
func (m Markers) Feature(cmd gcode.Command) (string, bool) {
	if !cmd.HasComment || m.FeaturePrefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(cmd.Comment, m.FeaturePrefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// Kind classifies a feature name.
func (m Markers) Kind(name string) FeatureKind {
	if name == "" {
		return KindNone
	}
	for _, inner := range m.InnerWall {
		if strings.EqualFold(name, inner) {
			return KindInnerWall
		}
	}
	for _, outer := range m.OuterWall {
		if strings.EqualFold(name, outer) {
			return KindOuterWall
		}
	}
	return KindOther
}

// IsLayerMarker reports whether the command is a comment-style layer-change
// marker. Always false for command-driven dialects.
func (m Markers) IsLayerMarker(cmd gcode.Command) bool {
	if m.Layer == LayerFromCommand || !cmd.HasComment || cmd.Opcode != "" {
		return false
	}
	rest, ok := strings.CutPrefix(cmd.Comment, m.LayerMarker)
	if !ok {
		return false
	}
	if m.Layer == LayerFromCommentAndMove {
		// ";LAYER:12" - the suffix must be the layer number.
		_, err := strconv.Atoi(strings.TrimSpace(rest))
		return err == nil
	}
	return strings.TrimSpace(rest) == ""
}

// LayerCommandHeight reports whether the command is an explicit layer change
// for command-driven dialects. matched is true when the command has the shape
// of a layer change; ok is false when its height does not parse.
func (m Markers) LayerCommandHeight(cmd gcode.Command) (z float64, matched, ok bool) {
	if m.Layer != LayerFromCommand {
		return 0, false, false
	}
	if cmd.Opcode != "G0" && cmd.Opcode != "G1" {
		return 0, false, false
	}
	if len(cmd.Fields) == 0 || cmd.Fields[0].Letter != 'Z' {
		return 0, false, false
	}
	f := cmd.Fields[0]
	return f.Value, true, f.Valid
}

// Height extracts the layer height announced by a line following a layer
// marker. matched reports whether the line is a height carrier at all; ok is
// false when the carried value does not parse.
func (m Markers) Height(cmd gcode.Command) (z float64, matched, ok bool) {
	switch m.Layer {
	case LayerFromComment:
		if !cmd.HasComment || cmd.Opcode != "" {
			return 0, false, false
		}
		rest, found := strings.CutPrefix(cmd.Comment, m.HeightPrefix)
		if !found {
			return 0, false, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return 0, true, false
		}
		return v, true, true
	case LayerFromCommentAndMove:
		if !cmd.IsMotion() {
			return 0, false, false
		}
		f, found := cmd.Field('Z')
		if !found {
			return 0, false, false
		}
		return f.Value, true, f.Valid
	default:
		return 0, false, false
	}
}

// IsObjectStart reports whether the command opens a printed object.
func (m Markers) IsObjectStart(cmd gcode.Command) bool {
	if cmd.Opcode == "EXCLUDE_OBJECT_START" {
		return true
	}
	return hasCommentPrefix(cmd, m.ObjectStart)
}

// IsObjectEnd reports whether the command closes a printed object.
func (m Markers) IsObjectEnd(cmd gcode.Command) bool {
	if cmd.Opcode == "EXCLUDE_OBJECT_END" {
		return true
	}
	return hasCommentPrefix(cmd, m.ObjectEnd)
}

func hasCommentPrefix(cmd gcode.Command, prefixes []string) bool {
	if !cmd.HasComment || cmd.Opcode != "" {
		return false
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(cmd.Comment, prefix) {
			return true
		}
	}
	return false
}
