package forcing

import (
	"errors"
	"fmt"
)

// ErrMissingField is wrapped by every MissingFieldError.
var ErrMissingField = errors.New("missing field")

// MissingFieldError reports a required element absent from the document.
// Where is "inputs" for document metadata, "outputs" for the record list, or
// "record N" (0-based) for an hourly record.
type MissingFieldError struct {
	Where string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Where, ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// FieldError reports a field whose text could not be parsed.
type FieldError struct {
	Where string
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: parse %s %q: %v", e.Where, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
