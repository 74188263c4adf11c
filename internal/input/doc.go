// Package input defines the actions handed to the dispatcher.
//
// An Action names a command ("align.last", "align.cursors") and carries its
// arguments and origin. Actions are plain values and are safe to copy.
package input
