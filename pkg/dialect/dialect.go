// Package dialect describes the comment conventions different slicers use to
// annotate G-code, and detects which convention a file follows.
package dialect

import (
	"fmt"
	"strings"
)

// Dialect identifies a slicer's annotation convention.
type Dialect string

// Known dialects.
const (
	// Auto asks for detection from file content.
	Auto Dialect = "auto"

	// Generic uses "; FEATURE:" names and explicit "G1 Z" layer changes.
	// It is the fallback for files no other dialect claims.
	Generic Dialect = "generic"

	// Orca covers OrcaSlicer and BambuStudio.
	Orca Dialect = "orca"

	// Prusa covers PrusaSlicer and SuperSlicer.
	Prusa Dialect = "prusa"

	// Cura covers Ultimaker Cura.
	Cura Dialect = "cura"
)

// All returns every concrete dialect in detection tie-break order.
func All() []Dialect {
	return []Dialect{Orca, Prusa, Cura, Generic}
}

// Parse converts a user-supplied name into a Dialect.
func Parse(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case "":
		return Auto, nil
	case Auto, Generic, Orca, Prusa, Cura:
		return d, nil
	case "bambu", "bambustudio", "orcaslicer":
		return Orca, nil
	case "prusaslicer", "superslicer":
		return Prusa, nil
	default:
		return "", fmt.Errorf("unknown dialect %q; valid dialects: auto, orca, prusa, cura, generic", name)
	}
}

// String implements fmt.Stringer.
func (d Dialect) String() string {
	return string(d)
}

// Description returns a one-line human description of the dialect.
func (d Dialect) Description() string {
	switch d {
	case Auto:
		return "detect from file content"
	case Generic:
		return "\"; FEATURE:\" markers, layer change on explicit G1 Z moves"
	case Orca:
		return "OrcaSlicer / BambuStudio (\"; FEATURE: Inner wall\", \"; CHANGE_LAYER\")"
	case Prusa:
		return "PrusaSlicer / SuperSlicer (\";TYPE:Perimeter\", \";LAYER_CHANGE\")"
	case Cura:
		return "Ultimaker Cura (\";TYPE:WALL-INNER\", \";LAYER:n\")"
	default:
		return "unknown"
	}
}

// FeatureKind classifies a feature marker.
type FeatureKind int

// Feature kinds.
const (
	KindNone FeatureKind = iota
	KindOuterWall
	KindInnerWall
	KindOther
)

// String implements fmt.Stringer.
func (k FeatureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOuterWall:
		return "outer-wall"
	case KindInnerWall:
		return "inner-wall"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("FeatureKind(%d)", int(k))
	}
}
