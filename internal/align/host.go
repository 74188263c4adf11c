package align

import "github.com/dshills/tabalign/internal/engine/buffer"

// LineSpan is a line as seen by the host: its offsets and its text
// without the trailing newline.
type LineSpan struct {
	Start buffer.ByteOffset
	End   buffer.ByteOffset
	Text  string
}

// Host is the editor surface an Aligner works against.
// The aligner never touches a buffer except through ApplyEdits.
type Host interface {
	// Line returns the line containing offset. It reports false when
	// offset is negative or at or beyond the end of the buffer.
	Line(offset buffer.ByteOffset) (LineSpan, bool)

	// Selections returns all cursors/selections in host order.
	Selections() []buffer.Range

	// TabSize returns the number of cells a tab occupies.
	TabSize() int

	// RowColumn returns the row and the character column of offset.
	// The column is not tab-expanded.
	RowColumn(offset buffer.ByteOffset) (row, col int)

	// Status shows a non-fatal message to the user.
	Status(msg string)

	// ApplyEdits applies a batch of edits ordered highest offset first.
	ApplyEdits(edits []buffer.Edit) error
}
