package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/anzen/schema"
)

// Kind classifies why a run stopped before producing the handler's result.
type Kind uint8

const (
	KindAuthorize Kind = iota + 1
	KindNoSegments
	KindSegments
	KindNoSearchParams
	KindSearchParams
	KindMethod
	KindContentType
	KindRead
	KindInternal
	KindBody
	KindFormData
	KindSlots
	KindHandler
)

var kindNames = map[Kind]string{
	KindAuthorize:      "authorize",
	KindNoSegments:     "no_segments",
	KindSegments:       "segments",
	KindNoSearchParams: "no_search_params",
	KindSearchParams:   "search_params",
	KindMethod:         "method",
	KindContentType:    "content_type",
	KindRead:           "read",
	KindInternal:       "internal",
	KindBody:           "body",
	KindFormData:       "form_data",
	KindSlots:          "slots",
	KindHandler:        "handler",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ClientError reports whether the kind is caused by the caller's input
// rather than by the server.
func (k Kind) ClientError() bool {
	switch k {
	case KindNoSegments, KindSegments, KindNoSearchParams, KindSearchParams,
		KindMethod, KindContentType, KindBody, KindFormData, KindSlots:
		return true
	}
	return false
}

// Failure is a stage failure handed to Config.Fail.
type Failure struct {
	Kind    Kind
	Issues  []schema.Issue
	Missing []string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("pipeline: %s: %v", f.Kind, f.Err)
	case len(f.Issues) > 0:
		return fmt.Sprintf("pipeline: %s: %d issue(s)", f.Kind, len(f.Issues))
	case len(f.Missing) > 0:
		return fmt.Sprintf("pipeline: %s: missing %s", f.Kind, strings.Join(f.Missing, ", "))
	default:
		return "pipeline: " + f.Kind.String()
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure returns err as a *Failure, classifying anything else as internal.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: KindInternal, Err: err}
}

// ErrHandlerPanic wraps a value recovered from a panicking handler.
var ErrHandlerPanic = errors.New("pipeline: handler panicked")
