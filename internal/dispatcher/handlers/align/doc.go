// Package align provides the handler for the align namespace.
//
// # Actions
//
//   - align.last: With one cursor, align the following lines on the character
//     after it (or on the selected text), treating back-to-back delimiters as
//     one column. With several cursors, align the cursors.
//   - align.first: Like align.last, but every delimiter occurrence is its own
//     column.
//   - align.cursors: Align multiple cursors; selections are rejected.
//
// The tab width can be overridden per action with the "tabSize" argument.
//
// # Results
//
// A successful alignment returns StatusOK with the applied edits. Text that is
// already aligned returns StatusNoOp. Input problems and timeouts return
// StatusError with the user-facing message in Result.Message.
//
// # Usage
//
//	d.RegisterNamespace("align", align.NewAlignHandler())
//	result := d.Dispatch(input.NewAction(align.ActionAlignLast, input.SourceCLI))
package align
