// Package bricklayer implements the inner-wall rewrite: a single forward pass
// over G-code that splits each inner-wall region into segments and lifts
// alternating segments by a fraction of the layer height, so walls of
// neighbouring layers interlock like courses of bricks.
package bricklayer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/dialect"
)

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid options")

// ShiftPolicy selects how far a shifted segment is lifted.
type ShiftPolicy string

const (
	// ShiftHalfLayer lifts shifted segments by half a layer height.
	ShiftHalfLayer ShiftPolicy = "half-layer"

	// ShiftFullLayer lifts shifted segments by a full layer height.
	ShiftFullLayer ShiftPolicy = "full-layer"
)

// ParityPolicy selects which segments are shifted.
type ParityPolicy string

const (
	// ParitySegment shifts odd segments.
	ParitySegment ParityPolicy = "segment"

	// ParitySegmentPlusLayer shifts segments whose index plus layer index is
	// odd, so the shifted set alternates from one layer to the next.
	ParitySegmentPlusLayer ParityPolicy = "segment-plus-layer"
)

// ExtrusionPolicy selects the multiplier applied to shifted extrusion.
type ExtrusionPolicy string

const (
	// ExtrusionFirstLastOverride uses FirstLayerMultiplier on the first layer,
	// LastLayerMultiplier on the last, and ExtrusionMultiplier elsewhere.
	ExtrusionFirstLastOverride ExtrusionPolicy = "first-last-override"

	// ExtrusionFlat uses ExtrusionMultiplier on every layer.
	ExtrusionFlat ExtrusionPolicy = "flat"
)

// ObjectEndPolicy selects whether an end-of-object marker closes an open
// inner-wall region.
type ObjectEndPolicy string

const (
	// ObjectEndCloseRegion closes the region at the marker.
	ObjectEndCloseRegion ObjectEndPolicy = "close-region"

	// ObjectEndIgnore leaves the region open until the next feature marker.
	ObjectEndIgnore ObjectEndPolicy = "ignore"
)

// TravelPolicy selects which non-extruding moves end a segment.
type TravelPolicy string

const (
	// TravelFeedRate treats a planar move that sets a feed rate and carries
	// no E as a travel. Planar moves without F continue the segment.
	TravelFeedRate TravelPolicy = "feed-rate"

	// TravelPlanar treats every planar move without E as a travel, for
	// slicers that omit F on repeated G0 moves.
	TravelPlanar TravelPolicy = "planar"
)

// Default option values.
const (
	DefaultLayerHeight          = 0.2
	DefaultExtrusionMultiplier  = 1.0
	DefaultFirstLayerMultiplier = 1.5
	DefaultLastLayerMultiplier  = 0.5
)

// Options configures a rewrite pass.
type Options struct {
	// LayerHeight is the nominal layer height in millimetres.
	LayerHeight float64

	// ExtrusionMultiplier scales extrusion of shifted segments.
	ExtrusionMultiplier float64

	// FirstLayerMultiplier and LastLayerMultiplier replace ExtrusionMultiplier
	// on the first and last layer under ExtrusionFirstLastOverride.
	FirstLayerMultiplier float64
	LastLayerMultiplier  float64

	Shift     ShiftPolicy
	Parity    ParityPolicy
	Extrusion ExtrusionPolicy
	ObjectEnd ObjectEndPolicy
	Travel    TravelPolicy

	// RestoreZ inserts a Z restore when a region closes while lifted.
	RestoreZ bool

	// Dialect forces a marker set. dialect.Auto detects it from the input.
	Dialect dialect.Dialect

	// Reprocess rewrites files that already carry provenance comments.
	Reprocess bool
}

// DefaultOptions returns the options matching the classic single-shift tool.
func DefaultOptions() Options {
	return Options{
		LayerHeight:          DefaultLayerHeight,
		ExtrusionMultiplier:  DefaultExtrusionMultiplier,
		FirstLayerMultiplier: DefaultFirstLayerMultiplier,
		LastLayerMultiplier:  DefaultLastLayerMultiplier,
		Shift:                ShiftHalfLayer,
		Parity:               ParitySegment,
		Extrusion:            ExtrusionFirstLastOverride,
		ObjectEnd:            ObjectEndCloseRegion,
		Travel:               TravelFeedRate,
		RestoreZ:             true,
		Dialect:              dialect.Auto,
	}
}

// Validate checks the options, returning an error wrapping ErrInvalidOptions.
func (o Options) Validate() error {
	var problems []string

	if o.LayerHeight <= 0 {
		problems = append(problems, fmt.Sprintf("layer height must be positive, got %g", o.LayerHeight))
	}
	if o.ExtrusionMultiplier <= 0 {
		problems = append(problems, fmt.Sprintf("extrusion multiplier must be positive, got %g", o.ExtrusionMultiplier))
	}
	if o.Extrusion == ExtrusionFirstLastOverride {
		if o.FirstLayerMultiplier <= 0 {
			problems = append(problems, fmt.Sprintf("first layer multiplier must be positive, got %g", o.FirstLayerMultiplier))
		}
		if o.LastLayerMultiplier <= 0 {
			problems = append(problems, fmt.Sprintf("last layer multiplier must be positive, got %g", o.LastLayerMultiplier))
		}
	}
	if _, err := ParseShiftPolicy(string(o.Shift)); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := ParseParityPolicy(string(o.Parity)); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := ParseExtrusionPolicy(string(o.Extrusion)); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := ParseObjectEndPolicy(string(o.ObjectEnd)); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := ParseTravelPolicy(string(o.Travel)); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := dialect.Parse(string(o.Dialect)); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(problems, "; "))
	}
	return nil
}

// ZOffset returns the lift applied to shifted segments.
func (o Options) ZOffset() float64 {
	if o.Shift == ShiftFullLayer {
		return o.LayerHeight
	}
	return o.LayerHeight * 0.5
}

// ParseShiftPolicy parses a shift policy name.
func ParseShiftPolicy(name string) (ShiftPolicy, error) {
	switch p := ShiftPolicy(name); p {
	case ShiftHalfLayer, ShiftFullLayer:
		return p, nil
	default:
		return "", fmt.Errorf("unknown shift policy %q; valid: half-layer, full-layer", name)
	}
}

// ParseParityPolicy parses a parity policy name.
func ParseParityPolicy(name string) (ParityPolicy, error) {
	switch p := ParityPolicy(name); p {
	case ParitySegment, ParitySegmentPlusLayer:
		return p, nil
	default:
		return "", fmt.Errorf("unknown parity policy %q; valid: segment, segment-plus-layer", name)
	}
}

// ParseExtrusionPolicy parses an extrusion policy name.
func ParseExtrusionPolicy(name string) (ExtrusionPolicy, error) {
	switch p := ExtrusionPolicy(name); p {
	case ExtrusionFirstLastOverride, ExtrusionFlat:
		return p, nil
	default:
		return "", fmt.Errorf("unknown extrusion policy %q; valid: first-last-override, flat", name)
	}
}

// ParseObjectEndPolicy parses an object-end policy name.
func ParseObjectEndPolicy(name string) (ObjectEndPolicy, error) {
	switch p := ObjectEndPolicy(name); p {
	case ObjectEndCloseRegion, ObjectEndIgnore:
		return p, nil
	default:
		return "", fmt.Errorf("unknown object-end policy %q; valid: close-region, ignore", name)
	}
}

// ParseTravelPolicy parses a travel policy name.
func ParseTravelPolicy(name string) (TravelPolicy, error) {
	switch p := TravelPolicy(name); p {
	case TravelFeedRate, TravelPlanar:
		return p, nil
	default:
		return "", fmt.Errorf("unknown travel policy %q; valid: feed-rate, planar", name)
	}
}
