package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/tabalign/internal/engine/buffer"
	"github.com/dshills/tabalign/internal/engine/cursor"
)

// Position is a 1-based line and character column, as typed on the command
// line.
type Position struct {
	Line   int
	Column int
}

// String returns the LINE:COL form.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParsePosition parses "LINE:COL". Both parts are 1-based; COL defaults to 1
// when omitted.
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, hasCol := strings.Cut(strings.TrimSpace(s), ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return Position{}, NewOperationError("parse position", s, ErrInvalidPosition)
	}
	col := 1
	if hasCol {
		col, err = strconv.Atoi(colStr)
		if err != nil || col < 1 {
			return Position{}, NewOperationError("parse position", s, ErrInvalidPosition)
		}
	}
	return Position{Line: line, Column: col}, nil
}

// Document is a file loaded into a buffer with its cursors.
type Document struct {
	// Path is the file path (empty for text read from stdin).
	Path string

	// Name is the display name.
	Name string

	Buffer *buffer.Buffer

	// Cursors is nil until the first cursor or selection is added.
	Cursors *cursor.CursorSet

	mode os.FileMode
}

// NewDocument creates a document over content. Line endings are normalized
// in the buffer and restored by Content.
func NewDocument(path string, content []byte, tabSize int) *Document {
	text := string(content)
	name := filepath.Base(path)
	if path == "" {
		name = "<stdin>"
	}
	return &Document{
		Path: path,
		Name: name,
		Buffer: buffer.NewBufferFromString(text,
			buffer.WithDetectedLineEnding(text),
			buffer.WithTabWidth(tabSize)),
		mode: 0o644,
	}
}

// OpenDocument reads path into a new document.
func OpenDocument(path string, tabSize int) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	doc := NewDocument(path, content, tabSize)
	doc.mode = info.Mode().Perm()
	return doc, nil
}

// Content returns the text with the document's original line endings.
func (d *Document) Content() string {
	return d.Buffer.TextWithLineEnding()
}

// Save writes the content back to Path.
func (d *Document) Save() error {
	if d.Path == "" {
		return NewOperationError("save", d.Name, ErrNoDocument)
	}
	if err := os.WriteFile(d.Path, []byte(d.Content()), d.mode); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	return nil
}

// OffsetOf converts a position to a byte offset. The column may point one
// past the last character of the line.
func (d *Document) OffsetOf(pos Position) (buffer.ByteOffset, error) {
	lines := int(d.Buffer.LineCount())
	if pos.Line < 1 || pos.Line > lines {
		return 0, NewOperationError("locate", pos.String(), ErrInvalidPosition).
			WithContext(fmt.Sprintf("document has %d lines", lines))
	}

	line := uint32(pos.Line - 1)
	offset, ok := d.Buffer.CharOffset(line, pos.Column-1)
	if !ok {
		chars := utf8.RuneCountInString(d.Buffer.LineText(line))
		return 0, NewOperationError("locate", pos.String(), ErrInvalidPosition).
			WithContext(fmt.Sprintf("line %d has %d characters", pos.Line, chars))
	}
	return offset, nil
}

// PositionOf converts a byte offset back to a 1-based position.
func (d *Document) PositionOf(offset buffer.ByteOffset) Position {
	pt := d.Buffer.OffsetToPoint(offset)
	return Position{
		Line:   int(pt.Line) + 1,
		Column: d.Buffer.CharColumn(offset) + 1,
	}
}

// AddCursor adds a zero-width cursor at pos.
func (d *Document) AddCursor(pos Position) error {
	offset, err := d.OffsetOf(pos)
	if err != nil {
		return err
	}
	d.addSelection(cursor.NewCursorSelection(offset))
	return nil
}

// Select adds a selection from one position to another. The end position is
// exclusive.
func (d *Document) Select(from, to Position) error {
	start, err := d.OffsetOf(from)
	if err != nil {
		return err
	}
	end, err := d.OffsetOf(to)
	if err != nil {
		return err
	}
	d.addSelection(cursor.NewSelection(start, end))
	return nil
}

func (d *Document) addSelection(sel cursor.Selection) {
	if d.Cursors == nil {
		d.Cursors = cursor.NewCursorSet(sel)
		return
	}
	d.Cursors.Add(sel)
}

// CursorPositions returns the cursor heads as positions, in cursor order.
func (d *Document) CursorPositions() []Position {
	if d.Cursors == nil {
		return nil
	}
	sels := d.Cursors.All()
	out := make([]Position, len(sels))
	for i, sel := range sels {
		out[i] = d.PositionOf(sel.Head)
	}
	return out
}
