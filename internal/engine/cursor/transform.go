package cursor

import (
	"sort"

	"github.com/dshills/tabalign/internal/engine/buffer"
)

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - If edit ends at or before offset: adjust offset by the edit's delta
//     (an insertion exactly at offset pushes it right)
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformSelection updates a selection after an edit.
// Both anchor and head are transformed independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// TransformBatch updates a selection after a batch of edits that was applied
// with buffer.ApplyEdits (highest offset first, all offsets in pre-edit
// coordinates).
func TransformBatch(sel Selection, edits []Edit) Selection {
	for _, edit := range edits {
		sel = TransformSelection(sel, edit)
	}
	return sel
}

// EditsInReverseOrder returns true if edits are sorted highest offset first
// and do not overlap.
func EditsInReverseOrder(edits []Edit) bool {
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return false
		}
	}
	return true
}

// SortEditsReverse sorts edits by start offset, highest first.
func SortEditsReverse(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start > edits[j].Range.Start
	})
}
