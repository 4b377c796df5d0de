package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrAsyncSchema indicates a schema returned a pending result where a
	// synchronous one is required.
	ErrAsyncSchema = errors.New("schema: validation must be synchronous")

	// ErrNilSchema is returned when a dictionary field or single schema is nil.
	ErrNilSchema = errors.New("schema: nil schema")

	// ErrDecodeTarget is returned by Values.Decode for a bad destination.
	ErrDecodeTarget = errors.New("schema: decode target must be a non-nil pointer to struct")
)

// SyncViolationError reports a schema that did not complete synchronously.
// It signals a programming mistake in the schema, not invalid input.
type SyncViolationError struct {
	Field string
}

func (e *SyncViolationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: schema returned a pending result", ErrAsyncSchema)
	}
	return fmt.Sprintf("%s: field %q returned a pending result", ErrAsyncSchema, e.Field)
}

// Is makes errors.Is(err, ErrAsyncSchema) hold.
func (e *SyncViolationError) Is(target error) bool {
	return target == ErrAsyncSchema
}
