package align

import (
	"strings"

	"github.com/dshills/tabalign/internal/engine/buffer"
)

// Line is the working copy of one buffer line during an alignment run.
//
// Positions inside a Line are character (rune) indices. The line owns two
// positions that stay valid across insertions: the point where the next
// search resumes and the position of the most recent match.
type Line struct {
	// Start and End are the line's buffer offsets before any insertion
	// made by the current run.
	Start buffer.ByteOffset
	End   buffer.ByteOffset

	text         []rune
	searchCursor int
	lastMatch    int
}

// NewLine creates a Line for the text found between start and end.
func NewLine(start, end buffer.ByteOffset, text string) *Line {
	return &Line{
		Start:     start,
		End:       end,
		text:      []rune(text),
		lastMatch: -1,
	}
}

// Text returns the current line text including insertions.
func (l *Line) Text() string {
	return string(l.text)
}

// Len returns the line length in characters.
func (l *Line) Len() int {
	return len(l.text)
}

// SearchCursor returns the position where the next search starts.
func (l *Line) SearchCursor() int {
	return l.searchCursor
}

// LastMatch returns the position of the most recent match, or -1.
func (l *Line) LastMatch() int {
	return l.lastMatch
}

// FindNext finds the next alignment point for delim at or after the search
// cursor and returns its position, or -1 when the line is exhausted.
//
// With alignFirst the first occurrence is returned. Otherwise back-to-back
// occurrences form a run and the position of the last one in the run is
// returned, so "a||b" and "aa|b" share a column.
func (l *Line) FindNext(delim string, alignFirst bool) int {
	d := []rune(delim)
	pos := l.index(d, l.searchCursor)
	if pos < 0 {
		l.searchCursor = len(l.text)
		return -1
	}

	if !alignFirst {
		for l.hasAt(d, pos+len(d)) {
			pos += len(d)
		}
	}

	l.searchCursor = pos + len(d)
	l.lastMatch = pos
	return pos
}

// Insert splices value into the line at pos, clamped to [0, Len()].
// The search cursor and last match move right when they sit at or after pos.
func (l *Line) Insert(pos int, value string) {
	v := []rune(value)
	if pos < 0 {
		pos = 0
	} else if pos > len(l.text) {
		pos = len(l.text)
	}

	if pos <= l.searchCursor {
		l.searchCursor += len(v)
	}
	if pos <= l.lastMatch {
		l.lastMatch += len(v)
	}

	text := make([]rune, 0, len(l.text)+len(v))
	text = append(text, l.text[:pos]...)
	text = append(text, v...)
	text = append(text, l.text[pos:]...)
	l.text = text
}

// index returns the first position >= from where d occurs, or -1.
func (l *Line) index(d []rune, from int) int {
	if len(d) == 0 || from < 0 {
		return -1
	}
	for i := from; i+len(d) <= len(l.text); i++ {
		if l.hasAt(d, i) {
			return i
		}
	}
	return -1
}

// hasAt reports whether d occurs exactly at pos.
func (l *Line) hasAt(d []rune, pos int) bool {
	if len(d) == 0 || pos < 0 || pos+len(d) > len(l.text) {
		return false
	}
	for i, r := range d {
		if l.text[pos+i] != r {
			return false
		}
	}
	return true
}

// JoinLines returns the text of all lines joined by newlines.
func JoinLines(lines []*Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}
