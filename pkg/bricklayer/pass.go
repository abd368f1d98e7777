package bricklayer

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

// pass holds everything one Process call mutates.
type pass struct {
	opts      Options
	markers   dialect.Markers
	lastLayer int
	lines     []gcode.Line
	eol       string
	logger    *log.Logger
	result    *Result
	st        scanState
}

// step consumes input line i, emitting it and any inserted lines.
func (p *pass) step(i int) {
	cmd := gcode.Parse(p.lines[i].Text)

	switch cmd.Opcode {
	case "M82":
		p.st.absoluteE = true
	case "M83":
		p.st.absoluteE = false
	}

	switch classify(p.markers, cmd) {
	case tagLayerChange:
		p.layerChange(i, cmd)
	case tagFeatureStart:
		name, _ := p.markers.Feature(cmd)
		p.featureStart(i, p.markers.Kind(name))
	case tagRegionEnd:
		if p.opts.ObjectEnd == ObjectEndCloseRegion {
			p.exitRegion(i)
		}
	case tagMotion:
		p.motion(i, cmd)
		return
	case tagProvenance, tagOther:
	}

	p.keep(i)
}

func (p *pass) layerChange(i int, cmd gcode.Command) {
	if p.markers.Layer == dialect.LayerFromCommand {
		z, _, ok := p.markers.LayerCommandHeight(cmd)
		if !ok {
			f, _ := cmd.Field('Z')
			p.warn(i+1, fmt.Sprintf("malformed layer height %q; height unchanged", f.Raw))
			return
		}
		p.advanceLayer(i, z, true)
		return
	}

	z, ok := p.lookaheadHeight(i)
	p.advanceLayer(i, z, ok)
}

// lookaheadHeight searches the lines following a comment layer marker for
// the height carrier.
func (p *pass) lookaheadHeight(i int) (float64, bool) {
	end := min(i+p.markers.Lookahead, len(p.lines)-1)
	for j := i + 1; j <= end; j++ {
		cmd := gcode.Parse(p.lines[j].Text)
		if cmd.Tagged() {
			continue
		}
		z, matched, ok := p.markers.Height(cmd)
		if !matched {
			continue
		}
		if !ok {
			p.warn(j+1, "malformed layer height; height unchanged")
			return 0, false
		}
		return z, true
	}

	p.logger.Debug("layer marker without height", "line", i+1, "z", p.st.z)
	return 0, false
}

func (p *pass) advanceLayer(i int, z float64, known bool) {
	if p.st.layerSeen {
		p.st.layer++
	} else {
		p.st.layerSeen = true
	}
	if known {
		p.st.z = z
	}

	p.st.segment = 0
	p.st.boundary = true
	p.st.shifted = false
	p.st.lifted = false

	p.result.Stats.Layers++
	p.event(EventLayerChanged, i, false)
	p.logger.Debug("layer change", "line", i+1, "layer", p.st.layer, "z", gcode.FormatZ(p.st.z))
}

func (p *pass) featureStart(i int, kind dialect.FeatureKind) {
	p.st.feature = kind
	if kind != dialect.KindInnerWall {
		p.exitRegion(i)
		return
	}
	p.enterRegion(i)
}

func (p *pass) motion(i int, cmd gcode.Command) {
	if f, bad := cmd.Malformed(); bad {
		p.warn(i+1, fmt.Sprintf("malformed %c value %q; line left unchanged", f.Letter, f.Raw))
		p.keep(i)
		return
	}

	switch classifyMotion(cmd, p.opts.Travel) {
	case motionTravel:
		p.st.boundary = true
	case motionExtrusion:
		if !p.st.inRegion {
			break
		}
		if p.st.boundary {
			p.startSegment(i)
		}
		if p.st.shifted {
			p.adjustExtrusion(i, cmd)
			return
		}
	case motionNone:
	}

	p.keep(i)
}

func (p *pass) warn(line int, msg string) {
	p.result.Warnings = append(p.result.Warnings, Warning{Line: line, Message: msg})
	if line == 0 {
		p.logger.Warn(msg)
		return
	}
	p.logger.Warn(msg, "line", line)
}

func (p *pass) event(kind EventKind, i int, shifted bool) {
	p.result.Events = append(p.result.Events, Event{
		Kind:    kind,
		Line:    i + 1,
		Layer:   p.st.layer,
		Segment: p.st.segment,
		Z:       p.st.z,
		Shifted: shifted,
	})
	if kind == EventSegmentStarted {
		p.logger.Debug("segment", "line", i+1, "layer", p.st.layer, "segment", p.st.segment, "shifted", shifted)
	}
}
