package anzen

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/anzen/schema"
)

// InputSource names the input a ValidationError refers to.
type InputSource string

const (
	SourceSegments     InputSource = "segments"
	SourceSearchParams InputSource = "searchParams"
)

// ValidationError is returned by a page or layout whose segments or
// search params failed validation.
type ValidationError struct {
	Source    InputSource
	ID        string
	Component string // "page" or "layout"
	Issues    []schema.Issue
}

func (e *ValidationError) Error() string {
	what := "Segments"
	if e.Source == SourceSearchParams {
		what = "Search params"
	}
	return fmt.Sprintf("%s validation error for %s server component '%s'", what, e.Component, e.ID)
}

// NoSegmentsProvidedError is returned when segments are declared but the
// props carry no params.
type NoSegmentsProvidedError struct {
	ID        string
	Component string
}

func (e *NoSegmentsProvidedError) Error() string {
	return fmt.Sprintf("No segments provided for %s server component '%s'", e.Component, e.ID)
}

// NoSearchParamsProvidedError is returned when search params are declared
// but the props carry none.
type NoSearchParamsProvidedError struct {
	ID        string
	Component string
}

func (e *NoSearchParamsProvidedError) Error() string {
	return fmt.Sprintf("No search params provided for %s server component '%s'", e.Component, e.ID)
}

// MissingLayoutSlotsError is returned when declared layout slots are
// absent from the props.
type MissingLayoutSlotsError struct {
	ID      string
	Missing []string
}

func (e *MissingLayoutSlotsError) Error() string {
	return fmt.Sprintf("Missing slots [%s] for layout server component '%s'", strings.Join(e.Missing, ", "), e.ID)
}
