package schema

import (
	"errors"
	"fmt"
)

// ErrConflict matches every ConflictError with errors.Is.
var ErrConflict = errors.New("cannot combine array and object rules for the same property")

// ConflictError reports a property used both with a wildcard and as a plain
// nested object.
type ConflictError struct {
	Property string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %q", ErrConflict, e.Property)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
