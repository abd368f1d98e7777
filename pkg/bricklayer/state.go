package bricklayer

import (
	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// scanState is the state threaded through the single forward pass.
type scanState struct {
	// layer is the zero-based index of the current layer. The first layer
	// change seen leaves it at zero.
	layer     int
	layerSeen bool

	// z is the nominal height of the current layer.
	z float64

	// feature is the kind of the most recent feature marker.
	feature dialect.FeatureKind

	// inRegion is set while inside an inner-wall region.
	inRegion bool

	// segment is the index of the current segment within the region. Zero
	// means no segment has started yet.
	segment int

	// boundary is set after a travel move or a region entry, so the next
	// extrusion opens a new segment.
	boundary bool

	// shifted records the parity decision for the current segment.
	shifted bool

	// lifted is set while the nozzle sits above the layer height because of
	// a line this pass inserted.
	lifted bool

	// absoluteE is set between M82 and M83. E then holds a position, not an
	// amount, and cannot be scaled.
	absoluteE       bool
	warnedAbsoluteE bool
}

// tag classifies a line for the pass.
type tag int

const (
	tagOther tag = iota
	tagLayerChange
	tagFeatureStart
	tagRegionEnd
	tagMotion
	tagProvenance
)

// motionKind distinguishes the moves the segmenter cares about.
type motionKind int

const (
	motionNone motionKind = iota
	motionTravel
	motionExtrusion
)

// classifyMotion reports whether a well-formed move is a travel or an
// extrusion. Moves without a planar component, such as retractions and
// Z hops, are neither. Under TravelFeedRate a planar move without E is a
// travel only when it also carries F.
func classifyMotion(cmd gcode.Command, policy TravelPolicy) motionKind {
	if !cmd.IsMotion() || !cmd.HasXY() {
		return motionNone
	}
	if cmd.Has('E') {
		return motionExtrusion
	}
	if policy == TravelPlanar || cmd.Has('F') {
		return motionTravel
	}
	return motionNone
}

// classify tags a parsed line. Layer and feature recognition depend on the
// dialect's marker set.
func classify(m dialect.Markers, cmd gcode.Command) tag {
	switch {
	case cmd.Tagged():
		return tagProvenance
	case m.IsLayerMarker(cmd):
		return tagLayerChange
	}
	if _, matched, _ := m.LayerCommandHeight(cmd); matched {
		return tagLayerChange
	}
	if _, ok := m.Feature(cmd); ok {
		return tagFeatureStart
	}
	if m.IsObjectEnd(cmd) {
		return tagRegionEnd
	}
	if cmd.IsMotion() {
		return tagMotion
	}
	return tagOther
}
