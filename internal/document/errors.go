package document

import (
	"errors"
	"fmt"
)

// Errors returned by document operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNoFileName indicates a save was attempted on a document with no path.
	ErrNoFileName = errors.New("document has no file name")

	// ErrOutOfRange indicates a location outside the document.
	ErrOutOfRange = errors.New("location out of range")
)

// OperationError represents an error that occurred during a file operation.
type OperationError struct {
	Op     string // Operation name (e.g., "save", "open")
	Target string // File path
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
