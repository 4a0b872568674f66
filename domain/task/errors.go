package task

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id does not reference an existing task.
var ErrNotFound = errors.New("task not found")

// ValidationError reports an input that fails a service precondition.
// Store failures are not validation errors; they propagate wrapped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
