// Package dispatcher routes actions to handlers and coordinates execution.
//
// Actions are looked up in two places:
//
//  1. Namespace Router: "align.last" goes to the handler registered for the
//     "align" namespace, if that handler accepts the action.
//  2. Handler Registry: exact action names, several handlers per name sorted
//     by priority.
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built from the engine, cursors and logger
//  2. Pre-dispatch hooks run and may cancel the action
//  3. The handler runs, with panic recovery unless disabled
//  4. Post-dispatch hooks run
//  5. Metrics are recorded, if enabled
//
// Usage:
//
//	d := dispatcher.NewWithDefaults()
//	d.SetEngine(buf)
//	d.SetCursors(cursors)
//	d.RegisterNamespace("align", alignhandler.NewAlignHandler())
//	result := d.Dispatch(input.NewAction("align.last", input.SourceAPI))
package dispatcher
