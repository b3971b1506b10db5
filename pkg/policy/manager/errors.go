package manager

import "fmt"

// LoadError reports which table file a bundle build failed on.
type LoadError struct {
	// Path is the table file that failed to load.
	Path string

	// Cause is the underlying repository error.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load table %q: %v", e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
