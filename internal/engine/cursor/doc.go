// Package cursor provides cursor and selection state for text editing.
//
// Selections use an anchor/head model. When Anchor == Head the selection is a
// plain cursor. A CursorSet holds the selections in the order the host added
// them; alignment code sorts its own copies when it needs offset order.
//
// After a batch of edits is applied to a buffer, TransformBatch moves
// a selection so it keeps pointing at the same text. An insertion exactly
// at a cursor pushes the cursor to the end of the inserted text.
package cursor
