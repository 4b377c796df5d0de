package anzen

import (
	"errors"

	"github.com/dmitrymomot/anzen/internal/pipeline"
)

var (
	// ErrBodyAndFormData is returned by constructors given both a body
	// schema and a form-data dictionary.
	ErrBodyAndFormData = errors.New("anzen: body and form data options are mutually exclusive")

	// ErrNilHandler is returned by constructors given a nil handler function.
	ErrNilHandler = errors.New("anzen: handler function is nil")

	// ErrNilResponse is passed to OnError when a route handler returns
	// neither a response nor an error.
	ErrNilResponse = errors.New("anzen: handler returned a nil response")

	// ErrNilComponent is returned when a component handler returns
	// neither a component nor an error.
	ErrNilComponent = errors.New("anzen: handler returned a nil component")

	// ErrHandlerPanic wraps a value recovered from a panicking handler.
	ErrHandlerPanic = pipeline.ErrHandlerPanic
)
