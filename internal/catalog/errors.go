package catalog

import (
	"errors"
	"fmt"
)

// Error kinds returned by the catalog service. Handlers map these to
// HTTP statuses; everything else is treated as an internal error.
var (
	ErrNotFound         = errors.New("product not found")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrValidationFailed = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("product store unavailable")
)

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// Unwrap makes errors.Is(err, ErrValidationFailed) work
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
