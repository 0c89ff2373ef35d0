package apperrors

import "errors"

// ErrIndexEmpty means the schema index has never completed a refresh.
// Surfaced to callers as service-unavailable, not as a query failure.
var ErrIndexEmpty = errors.New("schema index is empty; refresh the schema first")
