package schema

import "fmt"

// ExtractionError means the metadata source was unreachable or returned
// a malformed structure. It is fatal to a refresh: the prior index
// generation stays in place untouched.
type ExtractionError struct {
	Stage string // which extraction step failed
	Cause error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("schema extraction failed at %s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
