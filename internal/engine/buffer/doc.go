// Package buffer provides a thread-safe in-memory text buffer addressed by
// byte offsets. It is the host-side store that alignment commands read lines
// from and write edits to.
//
// The buffer package provides:
//
//   - Line lookup by index or by offset through a rebuilt line-start index
//   - Coordinate conversion between byte offsets, line/byte-column points,
//     and character columns
//   - Batched edits applied highest offset first
//   - Line ending normalization on load and restoration on output
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("a = 1\nbb = 2")
//	buf.Insert(1, " ")                       // "a  = 1\nbb = 2"
//	buf.ApplyEdits([]buffer.Edit{
//	    buffer.NewInsert(9, " "),
//	    buffer.NewInsert(0, "#"),
//	})
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock.
package buffer
