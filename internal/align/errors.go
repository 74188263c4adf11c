package align

import (
	"errors"
	"fmt"
)

// Input errors. These are reported to the user and nothing is edited.
var (
	// ErrSelectionSpansLines indicates a delimiter selection crosses a line break.
	ErrSelectionSpansLines = errors.New("selection can't span more than one line")

	// ErrMixedSelections indicates several cursors where at least one selects text.
	ErrMixedSelections = errors.New("you must have either a selection, a single cursor, or multiple cursors")

	// ErrEmptyDelimiter indicates there is no character to align on.
	ErrEmptyDelimiter = errors.New("nothing to align on at the cursor")

	// ErrNoCursors indicates the host returned no cursors at all.
	ErrNoCursors = errors.New("no cursors")
)

// ErrTimeout indicates a loop exceeded its budget.
var ErrTimeout = errors.New("timeout")

// UserInputError wraps an input problem detected before any edit.
type UserInputError struct {
	Op  string // Operation name (e.g., "align selection")
	Err error
}

func (e *UserInputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UserInputError) Unwrap() error {
	return e.Err
}

// InvariantError signals that an internal loop did not terminate in time.
// Edits applied before the failure stay in the buffer.
type InvariantError struct {
	Where string // Loop marker for diagnosis (e.g., "align.Columns")
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %v", e.Where, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func inputError(op string, err error) error {
	return &UserInputError{Op: op, Err: err}
}

func timeoutError(where string) error {
	return &InvariantError{Where: where, Err: ErrTimeout}
}

// IsUserInputError reports whether err is caused by bad input.
func IsUserInputError(err error) bool {
	var ue *UserInputError
	return errors.As(err, &ue)
}

// StatusMessage returns the user-facing text for err.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	var ue *UserInputError
	if errors.As(err, &ue) {
		return "Error: " + ue.Err.Error()
	}
	var ie *InvariantError
	if errors.As(err, &ie) {
		return fmt.Sprintf("Programmer error: %v in %s", ie.Err, ie.Where)
	}
	return "Error: " + err.Error()
}
