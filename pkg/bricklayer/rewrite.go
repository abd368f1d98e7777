package bricklayer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/gcode"
)

func shiftLine(z float64, segment int) string {
	return fmt.Sprintf("G1 Z%s ; %s shifted Z for segment #%d", gcode.FormatZ(z), gcode.ProvenanceTag, segment)
}

func resetLine(z float64, segment int) string {
	return fmt.Sprintf("G1 Z%s ; %s reset Z for segment #%d", gcode.FormatZ(z), gcode.ProvenanceTag, segment)
}

func restoreLine(z float64) string {
	return fmt.Sprintf("G1 Z%s ; %s restored Z after inner wall", gcode.FormatZ(z), gcode.ProvenanceTag)
}

func hasTagText(text string) bool {
	return strings.Contains(text, gcode.ProvenanceTag)
}

// adjustExtrusion scales the E field of input line i, retractions included.
// Absolute E positions are left alone.
func (p *pass) adjustExtrusion(i int, cmd gcode.Command) {
	if p.st.absoluteE {
		if !p.st.warnedAbsoluteE {
			p.st.warnedAbsoluteE = true
			p.warn(i+1, "absolute extrusion (M82); E left unscaled in shifted segments")
		}
		p.keep(i)
		return
	}

	e, _ := cmd.Float('E')

	factor := p.multiplier()
	text, ok := cmd.ReplaceField(p.lines[i].Text, 'E', gcode.FormatE(e*factor))
	if !ok {
		p.keep(i)
		return
	}
	text = strings.TrimRight(text, " \t") + " ; " + gcode.ProvenanceTag +
		" adjusted E x" + strconv.FormatFloat(factor, 'f', 3, 64) +
		" for segment #" + strconv.Itoa(p.st.segment)

	p.emit(gcode.Line{Text: text, EOL: p.lines[i].EOL}, i)
	p.result.Stats.AdjustedExtrusions++
}

// keep emits input line i unchanged.
func (p *pass) keep(i int) {
	p.emit(p.lines[i], i)
}

// insert emits a synthesized line ahead of the current input line.
func (p *pass) insert(text string) {
	p.emit(gcode.Line{Text: text, EOL: p.eol}, -1)
	p.result.Stats.InsertedLines++
}

func (p *pass) emit(line gcode.Line, origin int) {
	p.result.Lines = append(p.result.Lines, line)
	p.result.Origins = append(p.result.Origins, origin)
}
