package dialect

import (
	"sort"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// signature is a comment fragment that votes for a dialect.
type signature struct {
	dialect Dialect
	prefix  string
	// required marks the dialect's layer marker: without at least one hit
	// the dialect cannot drive a layer-aware pass and is never chosen.
	required bool
	// weight of a generator header is large so it dominates incidental hits.
	weight int
}

//nolint:gochecknoglobals // Read-only lookup table.
var signatures = []signature{
	{dialect: Orca, prefix: "CHANGE_LAYER", required: true, weight: 1},
	{dialect: Orca, prefix: "Z_HEIGHT:", weight: 1},
	{dialect: Orca, prefix: "FEATURE:", weight: 1},
	{dialect: Orca, prefix: "generated by OrcaSlicer", weight: 100},
	{dialect: Orca, prefix: "generated by BambuStudio", weight: 100},
	{dialect: Orca, prefix: "BambuStudio", weight: 100},

	{dialect: Prusa, prefix: "LAYER_CHANGE", required: true, weight: 1},
	{dialect: Prusa, prefix: "TYPE:External perimeter", weight: 1},
	{dialect: Prusa, prefix: "TYPE:Perimeter", weight: 1},
	{dialect: Prusa, prefix: "generated by PrusaSlicer", weight: 100},
	{dialect: Prusa, prefix: "generated by SuperSlicer", weight: 100},

	{dialect: Cura, prefix: "LAYER:", required: true, weight: 1},
	{dialect: Cura, prefix: "TYPE:WALL-", weight: 1},
	{dialect: Cura, prefix: "FLAVOR:", weight: 1},
	{dialect: Cura, prefix: "Generated with Cura", weight: 100},
}

// Detect scans the whole file once and returns the dialect whose markers it
// carries. Files no dialect claims are Generic; detection never fails.
func Detect(lines []gcode.Line) Dialect {
	scores := make(map[Dialect]int)
	hasLayerMarker := make(map[Dialect]bool)

	for _, line := range lines {
		cmd := gcode.Parse(line.Text)
		if !cmd.CommentOnly() {
			continue
		}
		for _, sig := range signatures {
			if !strings.HasPrefix(cmd.Comment, sig.prefix) {
				continue
			}
			scores[sig.dialect] += sig.weight
			if sig.required {
				hasLayerMarker[sig.dialect] = true
			}
		}
	}

	best, bestScore := Generic, 0
	for _, d := range All() {
		if !hasLayerMarker[d] {
			continue
		}
		if scores[d] > bestScore {
			best, bestScore = d, scores[d]
		}
	}

	return best
}

// Resolve returns the requested dialect, running detection for Auto.
func Resolve(requested Dialect, lines []gcode.Line) Dialect {
	if requested == "" || requested == Auto {
		return Detect(lines)
	}
	return requested
}

// Survey summarises a file ahead of the main pass.
type Survey struct {
	// Layers is the number of layer changes the marker set recognises.
	Layers int

	// Features lists the distinct feature names, sorted.
	Features []string

	// Objects counts object-start markers.
	Objects int
}

// Inspect runs the pre-pass survey of lines under the given markers.
func Inspect(lines []gcode.Line, m Markers) Survey {
	var survey Survey
	seen := make(map[string]struct{})

	for _, line := range lines {
		trimmed := strings.TrimSpace(line.Text)
		if trimmed == "" {
			continue
		}
		// Only comments and moves can carry markers; skip the rest cheaply.
		if trimmed[0] != ';' && trimmed[0] != 'G' && trimmed[0] != 'g' && trimmed[0] != 'E' {
			continue
		}

		cmd := gcode.Parse(line.Text)
		if cmd.Tagged() {
			continue
		}

		if m.IsLayerMarker(cmd) {
			survey.Layers++
		} else if _, matched, ok := m.LayerCommandHeight(cmd); matched && ok {
			survey.Layers++
		}

		if name, ok := m.Feature(cmd); ok {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				survey.Features = append(survey.Features, name)
			}
		}

		if m.IsObjectStart(cmd) {
			survey.Objects++
		}
	}

	sort.Strings(survey.Features)
	return survey
}
