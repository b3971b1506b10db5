package physio

import "fmt"

// TableError reports a malformed rule table. It is a fatal
// configuration error: a repository never starts with partial data.
type TableError struct {
	Path  string // Source path of the table
	Cause error  // Underlying decode or validation error
}

// Error implements the error interface.
func (e *TableError) Error() string {
	return fmt.Sprintf("rule table %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *TableError) Unwrap() error {
	return e.Cause
}

// NewTableError creates a new TableError.
func NewTableError(path string, cause error) *TableError {
	return &TableError{Path: path, Cause: cause}
}
