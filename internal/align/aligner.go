package align

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/engine/buffer"
)

// Mode identifies which alignment a command ran.
type Mode uint8

const (
	// ModeSelection aligns on a selected delimiter.
	ModeSelection Mode = iota
	// ModeCursors aligns multiple cursors to a common column.
	ModeCursors
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSelection:
		return "selection"
	case ModeCursors:
		return "cursors"
	default:
		return "unknown"
	}
}

// Result summarizes a completed alignment.
type Result struct {
	Mode Mode

	// Delimiter is the aligned-on string (selection mode).
	Delimiter string

	// Lines is the number of lines in the batch (selection mode) or the
	// number of distinct cursor lines (cursor mode).
	Lines int

	// Passes is the number of columns aligned.
	Passes int

	// Edits holds every edit handed to the host, in application order.
	Edits []buffer.Edit

	// Insertions holds the per-cursor insertions (cursor mode).
	Insertions []Insertion
}

// Changed returns true if any edit was applied.
func (r Result) Changed() bool {
	return len(r.Edits) > 0
}

// Aligner runs alignment commands against a Host.
// An Aligner holds no per-command state and may be reused.
type Aligner struct {
	host   Host
	budget Budget
	logger *zap.Logger
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithBudget sets the loop budget used by every command.
func WithBudget(b Budget) Option {
	return func(a *Aligner) {
		a.budget = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aligner) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Aligner for host.
func New(host Host, opts ...Option) *Aligner {
	a := &Aligner{
		host:   host,
		budget: DefaultBudget(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run picks the mode from the host's cursors: a single cursor or selection
// aligns on a delimiter, several cursors align to each other.
func (a *Aligner) Run(alignFirst bool) (Result, error) {
	sels := a.host.Selections()
	switch len(sels) {
	case 0:
		return Result{}, a.fail(inputError("align", ErrNoCursors))
	case 1:
		return a.AlignBySelection(sels[0], alignFirst)
	default:
		return a.AlignByCursors()
	}
}

// AlignBySelection aligns the lines starting at the selection's line on the
// selected text, or on the character after the cursor when nothing is
// selected. Following lines join the batch while they contain the delimiter.
func (a *Aligner) AlignBySelection(sel buffer.Range, alignFirst bool) (Result, error) {
	const op = "align selection"
	res := Result{Mode: ModeSelection}
	guard := NewGuard(a.budget)

	startRow, _ := a.host.RowColumn(sel.Start)
	endRow, _ := a.host.RowColumn(sel.End)
	if startRow != endRow {
		return res, a.fail(inputError(op, ErrSelectionSpansLines))
	}

	span, ok := a.host.Line(sel.Start)
	if !ok {
		return res, a.fail(inputError(op, ErrEmptyDelimiter))
	}
	delim := delimiterAt(span, sel)
	if delim == "" {
		return res, a.fail(inputError(op, ErrEmptyDelimiter))
	}
	res.Delimiter = delim

	var lines []*Line
	var original []string
	for offset := span.Start; ; {
		if guard.HasTicked() {
			return res, a.fail(timeoutError("align.AlignBySelection"))
		}
		ls, ok := a.host.Line(offset)
		if !ok || !strings.Contains(ls.Text, delim) {
			break
		}
		lines = append(lines, NewLine(ls.Start, ls.End, ls.Text))
		original = append(original, ls.Text)
		offset = ls.End + 1
	}
	res.Lines = len(lines)

	passes, err := alignColumns(lines, delim, alignFirst, guard)
	res.Passes = passes
	if err != nil {
		return res, a.fail(err)
	}

	aligned := JoinLines(lines)
	if aligned == strings.Join(original, "\n") {
		a.logger.Debug("lines already aligned",
			zap.String("delimiter", delim),
			zap.Int("lines", len(lines)))
		return res, nil
	}

	region := buffer.NewRange(lines[0].Start, lines[len(lines)-1].End)
	edits := []buffer.Edit{buffer.NewEdit(region, aligned)}
	if err := a.host.ApplyEdits(edits); err != nil {
		return res, a.fail(fmt.Errorf("%s: applying edits: %w", op, err))
	}
	res.Edits = edits

	a.logger.Debug("aligned selection",
		zap.String("delimiter", delim),
		zap.Bool("alignFirst", alignFirst),
		zap.Int("lines", len(lines)),
		zap.Int("passes", passes))
	return res, nil
}

// delimiterAt returns the selected text of sel within span, or the single
// character after a zero-width cursor.
func delimiterAt(span LineSpan, sel buffer.Range) string {
	from := int(sel.Start - span.Start)
	if from < 0 || from >= len(span.Text) {
		return ""
	}
	if !sel.IsEmpty() {
		to := int(sel.End - span.Start)
		if to > len(span.Text) {
			to = len(span.Text)
		}
		return span.Text[from:to]
	}
	r, size := utf8.DecodeRuneInString(span.Text[from:])
	if r == utf8.RuneError && size <= 1 {
		return span.Text[from : from+size]
	}
	return string(r)
}

// AlignByCursors aligns the first cursor of every line to the rightmost of
// them, then the second cursor of every line, and so on. Every cursor must
// be zero-width; the check happens before any edit.
func (a *Aligner) AlignByCursors() (Result, error) {
	const op = "align cursors"
	res := Result{Mode: ModeCursors}
	guard := NewGuard(a.budget)

	sels := a.host.Selections()
	if len(sels) == 0 {
		return res, a.fail(inputError(op, ErrNoCursors))
	}
	for _, sel := range sels {
		if !sel.IsEmpty() {
			return res, a.fail(inputError(op, ErrMixedSelections))
		}
	}

	waiting := make([]buffer.Range, len(sels))
	copy(waiting, sels)

	for len(waiting) > 0 {
		if guard.HasTicked() {
			return res, a.fail(timeoutError("align.AlignByCursors"))
		}

		infos, err := a.describeCursors(waiting, guard)
		if err != nil {
			return res, a.fail(err)
		}

		active, rest := GroupCursors(infos)
		if res.Passes == 0 {
			res.Lines = len(active)
		}
		maxpos := maxVisualColumn(active)

		waiting = waiting[:0]
		for _, c := range rest {
			waiting = append(waiting, c.Region)
		}

		var edits []buffer.Edit
		for _, c := range active {
			n := maxpos - c.VisualColumn
			loc := c.Offset()
			if n > 0 {
				edits = append(edits, buffer.NewInsert(loc, strings.Repeat(" ", n)))
				res.Insertions = append(res.Insertions, Insertion{
					Pass:   res.Passes,
					Offset: loc,
					Length: n,
				})
			}
			for i := range waiting {
				if waiting[i].Start >= loc {
					waiting[i] = waiting[i].Shift(buffer.ByteOffset(n))
				}
			}
		}

		if len(edits) > 0 {
			if err := a.host.ApplyEdits(edits); err != nil {
				return res, a.fail(fmt.Errorf("%s: applying edits: %w", op, err))
			}
			res.Edits = append(res.Edits, edits...)
		}

		a.logger.Debug("aligned cursor pass",
			zap.Int("pass", res.Passes),
			zap.Int("cursors", len(active)),
			zap.Int("column", maxpos),
			zap.Int("waiting", len(waiting)))
		res.Passes++
	}

	return res, nil
}

// describeCursors builds the CursorInfo of each zero-width region.
func (a *Aligner) describeCursors(regions []buffer.Range, guard *Guard) ([]CursorInfo, error) {
	tabSize := a.host.TabSize()
	infos := make([]CursorInfo, 0, len(regions))

	for _, r := range regions {
		if guard.HasTicked() {
			return nil, timeoutError("align.describeCursors")
		}

		row, col := a.host.RowColumn(r.Start)
		info := CursorInfo{
			Region:       r,
			LineStart:    r.Start,
			Row:          row,
			Column:       col,
			VisualColumn: col,
		}
		// A cursor at the very end of the buffer has no line; it
		// still owns a line start for grouping purposes.
		if span, ok := a.host.Line(r.Start); ok {
			info.LineStart = span.Start
			info.VisualColumn = VisualColumn(span.Text, col, tabSize)
		} else if span, ok := a.host.Line(r.Start - 1); ok && r.Start == span.End {
			info.LineStart = span.Start
			info.VisualColumn = VisualColumn(span.Text, col, tabSize)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// fail reports err through the host and logs it.
func (a *Aligner) fail(err error) error {
	msg := StatusMessage(err)
	a.host.Status(msg)
	if IsUserInputError(err) {
		a.logger.Info("alignment rejected", zap.Error(err))
	} else {
		a.logger.Error("alignment aborted", zap.Error(err))
	}
	return err
}
