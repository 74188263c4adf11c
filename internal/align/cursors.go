package align

import (
	"sort"
	"unicode/utf8"

	"github.com/dshills/tabalign/internal/engine/buffer"
)

// CursorInfo describes one zero-width cursor for a cursor-mode pass.
type CursorInfo struct {
	Region       buffer.Range
	LineStart    buffer.ByteOffset
	Row          int
	Column       int // raw character column
	VisualColumn int // column with tabs expanded to tabSize cells
}

// Offset returns the cursor's buffer offset.
func (c CursorInfo) Offset() buffer.ByteOffset {
	return c.Region.Start
}

// Insertion records spaces inserted in front of a cursor.
type Insertion struct {
	Pass   int
	Offset buffer.ByteOffset
	Length int
}

// VisualColumn returns col plus the extra cells taken by tabs among the
// first col characters of lineText.
func VisualColumn(lineText string, col, tabSize int) int {
	if tabSize < 1 {
		tabSize = 1
	}
	tabs := 0
	seen := 0
	for i := 0; i < len(lineText) && seen < col; {
		r, size := utf8.DecodeRuneInString(lineText[i:])
		if r == '\t' {
			tabs++
		}
		i += size
		seen++
	}
	return col + tabs*(tabSize-1)
}

// GroupCursors splits cursors into the first cursor of each line, which are
// aligned in this pass, and the rest, which wait for a later pass.
// Active cursors come back highest offset first so their insertions can be
// applied without invalidating each other; waiting cursors keep offset order.
func GroupCursors(cursors []CursorInfo) (active, waiting []CursorInfo) {
	sorted := make([]CursorInfo, len(cursors))
	copy(sorted, cursors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset() < sorted[j].Offset()
	})

	prevLine := buffer.ByteOffset(-1)
	for _, c := range sorted {
		if c.LineStart != prevLine {
			active = append(active, c)
		} else {
			waiting = append(waiting, c)
		}
		prevLine = c.LineStart
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Offset() > active[j].Offset()
	})
	return active, waiting
}

// maxVisualColumn returns the largest visual column among cursors.
func maxVisualColumn(cursors []CursorInfo) int {
	maxpos := 0
	for _, c := range cursors {
		if c.VisualColumn > maxpos {
			maxpos = c.VisualColumn
		}
	}
	return maxpos
}
