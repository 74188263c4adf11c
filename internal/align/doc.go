// Package align lines up text columns across consecutive lines.
//
// Two commands are provided:
//
//   - AlignBySelection aligns every occurrence of a delimiter, one column
//     at a time, over the run of lines that contain it. The delimiter is the
//     selected text, or the character after the cursor.
//   - AlignByCursors pads the text in front of multiple cursors so that the
//     first cursor of each line ends up in the same visual column, then the
//     second, and so on. Tabs count as TabSize cells.
//
// Alignment only ever inserts spaces. The package talks to the editor through
// the Host interface and hands it batches of edits ordered highest offset
// first.
//
// Every loop is bounded by a Guard. A loop that outruns its Budget fails with
// an InvariantError; edits already applied by earlier passes stay applied.
//
// Basic usage:
//
//	a := align.New(host, align.WithLogger(logger))
//	res, err := a.Run(false)
//	if err != nil {
//	    // host.Status has already shown the message
//	}
package align
