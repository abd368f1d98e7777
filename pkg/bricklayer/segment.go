package bricklayer

func (p *pass) enterRegion(i int) {
	if !p.st.inRegion {
		p.result.Stats.Regions++
	}
	p.st.inRegion = true
	p.st.segment = 0
	p.st.boundary = true
	p.st.shifted = false
	p.event(EventRegionEntered, i, false)
}

// exitRegion closes an open region before line i, restoring the layer
// height if a shifted segment left the nozzle lifted.
func (p *pass) exitRegion(i int) {
	if !p.st.inRegion {
		return
	}

	if p.opts.RestoreZ && p.st.lifted {
		p.insert(restoreLine(p.st.z))
		p.result.Stats.RestoredZ++
		p.event(EventZRestored, i, false)
	}

	p.st.inRegion = false
	p.st.shifted = false
	p.st.lifted = false
	p.event(EventRegionExited, i, false)
}

// closeAtEOF closes a region still open when the input ends. A final line
// without a terminator hands its missing newline on to the inserted line.
func (p *pass) closeAtEOF() {
	if !p.st.inRegion {
		return
	}

	n := len(p.result.Lines)
	unterminated := n > 0 && p.result.Lines[n-1].EOL == ""
	if unterminated {
		p.result.Lines[n-1].EOL = p.eol
	}

	p.exitRegion(len(p.lines))

	if last := len(p.result.Lines) - 1; unterminated && last >= n {
		p.result.Lines[last].EOL = ""
	} else if unterminated {
		p.result.Lines[n-1].EOL = ""
	}
}

// startSegment opens the next segment before line i and inserts the Z move
// for its parity.
func (p *pass) startSegment(i int) {
	p.st.segment++
	p.st.boundary = false
	p.st.shifted = p.shouldShift()
	p.result.Stats.Segments++

	if p.st.shifted {
		p.insert(shiftLine(p.st.z+p.opts.ZOffset(), p.st.segment))
		p.st.lifted = true
		p.result.Stats.ShiftedSegments++
	} else {
		p.insert(resetLine(p.st.z, p.st.segment))
		p.st.lifted = false
	}

	p.event(EventSegmentStarted, i, p.st.shifted)
}

// shouldShift applies the parity policy to the current segment.
func (p *pass) shouldShift() bool {
	n := p.st.segment
	if p.opts.Parity == ParitySegmentPlusLayer {
		n += p.st.layer
	}
	return n%2 == 1
}

// multiplier returns the extrusion factor for the current layer.
func (p *pass) multiplier() float64 {
	if p.opts.Extrusion == ExtrusionFirstLastOverride {
		switch p.st.layer {
		case 0:
			return p.opts.FirstLayerMultiplier
		case p.lastLayer:
			return p.opts.LastLayerMultiplier
		}
	}
	return p.opts.ExtrusionMultiplier
}
