package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerationError means the language-model call failed: timeout, quota,
// or a malformed/empty response. It is not a SQL execution failure, so
// the loop retries with a fresh prompt instead of a repair prompt.
type GenerationError struct {
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("sql generation failed: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ExhaustedError means the retry budget was consumed without a
// successful execution. It carries enough for diagnosis; the full
// attempt history lives on the session.
type ExhaustedError struct {
	SessionID uuid.UUID
	Attempts  int
	LastSQL   string
	LastError string
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry budget exhausted after %d attempts: %s", e.Attempts, e.LastError)
}
