// Package diff renders unified diffs of a rewrite. The rewriter already knows
// which output line came from which input line, so hunks are built from that
// mapping in a single linear walk instead of a sequence alignment, which
// keeps multi-megabyte toolpaths cheap to diff.
package diff

import (
	"fmt"
	"strings"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// Diff is a unified diff between an input file and its rewrite.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Hunk is one "@@" section of a unified diff. Start fields are 1-based.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []Line
}

// Line is a single diff line without its prefix.
type Line struct {
	Kind    LineKind
	Content string
}

// LineKind is the role of a line within a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// block is a run of changed lines between two unchanged ones.
type block struct {
	orig, mod int
	removed   []string
	added     []string
}

func (b *block) origEnd() int { return b.orig + len(b.removed) }

// FromOrigins builds the diff of modified against original. origins[i] is
// the index of the original line modified[i] was produced from, or -1 for an
// inserted line; origins must be non-decreasing apart from -1 entries.
// Original lines that no output line refers to are treated as deleted.
// It returns nil when nothing changed.
func FromOrigins(path string, original, modified []string, origins []int) *Diff {
	var (
		blocks []*block
		cur    *block
		next   int
	)

	open := func(k int) *block {
		if cur == nil {
			cur = &block{orig: next, mod: k}
		}
		return cur
	}

	for k, src := range origins {
		if src < 0 {
			b := open(k)
			b.added = append(b.added, modified[k])
			continue
		}
		for ; next < src; next++ {
			b := open(k)
			b.removed = append(b.removed, original[next])
		}
		if modified[k] != original[src] {
			b := open(k)
			b.removed = append(b.removed, original[src])
			b.added = append(b.added, modified[k])
		} else if cur != nil {
			blocks = append(blocks, cur)
			cur = nil
		}
		next = src + 1
	}
	for ; next < len(original); next++ {
		b := open(len(origins))
		b.removed = append(b.removed, original[next])
	}
	if cur != nil {
		blocks = append(blocks, cur)
	}

	if len(blocks) == 0 {
		return nil
	}

	d := &Diff{Path: path}
	for i := 0; i < len(blocks); {
		j := i + 1
		for j < len(blocks) && blocks[j].orig-blocks[j-1].origEnd() <= 2*ContextLines {
			j++
		}
		d.Hunks = append(d.Hunks, buildHunk(original, blocks[i:j]))
		i = j
	}
	for _, h := range d.Hunks {
		for _, line := range h.Lines {
			switch line.Kind {
			case LineAdd:
				d.Additions++
			case LineRemove:
				d.Deletions++
			case LineContext:
			}
		}
	}

	return d
}

func buildHunk(original []string, blocks []*block) Hunk {
	first, last := blocks[0], blocks[len(blocks)-1]
	start := max(0, first.orig-ContextLines)
	end := min(len(original), last.origEnd()+ContextLines)

	h := Hunk{
		OriginalStart: start + 1,
		ModifiedStart: first.mod - (first.orig - start) + 1,
	}

	addContext := func(lines []string) {
		for _, text := range lines {
			h.Lines = append(h.Lines, Line{Kind: LineContext, Content: text})
			h.OriginalCount++
			h.ModifiedCount++
		}
	}

	addContext(original[start:first.orig])
	for i, b := range blocks {
		for _, text := range b.removed {
			h.Lines = append(h.Lines, Line{Kind: LineRemove, Content: text})
			h.OriginalCount++
		}
		for _, text := range b.added {
			h.Lines = append(h.Lines, Line{Kind: LineAdd, Content: text})
			h.ModifiedCount++
		}
		if i+1 < len(blocks) {
			addContext(original[b.origEnd():blocks[i+1].orig])
		}
	}
	addContext(original[last.origEnd():end])

	return h
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
		for _, line := range h.Lines {
			switch line.Kind {
			case LineContext:
				b.WriteByte(' ')
			case LineAdd:
				b.WriteByte('+')
			case LineRemove:
				b.WriteByte('-')
			}
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// FullString renders the diff with the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges reports whether the diff has any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}
