package schema

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/anzen/pkg/async"
)

// Schema is the minimal contract a validation library has to satisfy.
//
// Validate returns either a value or a list of issues. Synchronous
// implementations return async.Resolved; asynchronous ones return a
// pending value. An error carried by the returned value means the schema
// itself failed, which is different from the input being invalid.
type Schema interface {
	Validate(input any) async.Value[Result]
}

// Result is the outcome of a validation: Value on success, Issues otherwise.
type Result struct {
	Value  any
	Issues []Issue
}

// OK reports whether the validation produced no issues.
func (r Result) OK() bool {
	return len(r.Issues) == 0
}

// Issue describes one validation failure.
// Path holds map keys (string) and list indexes (int) leading to the value.
type Issue struct {
	Message string         `json:"message"`
	Path    []any          `json:"path,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// PathString renders the path in dotted form, e.g. "items.0.name".
func (i Issue) PathString() string {
	parts := make([]string, 0, len(i.Path))
	for _, p := range i.Path {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return i.PathString() + ": " + i.Message
}

// prefixed returns a copy of the issue with key prepended to its path.
func (i Issue) prefixed(key any) Issue {
	path := make([]any, 0, len(i.Path)+1)
	path = append(path, key)
	path = append(path, i.Path...)
	i.Path = path
	return i
}

// Issues is a list of issues usable as an error value.
type Issues []Issue

func (is Issues) Error() string {
	if len(is) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(is))
	for _, i := range is {
		parts = append(parts, i.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Func adapts a synchronous validation function to Schema.
type Func func(input any) Result

// Validate implements Schema.
func (f Func) Validate(input any) async.Value[Result] {
	return async.Resolved(f(input))
}

// AsyncFunc adapts a function producing possibly-pending results to Schema.
type AsyncFunc func(input any) async.Value[Result]

// Validate implements Schema.
func (f AsyncFunc) Validate(input any) async.Value[Result] {
	return f(input)
}

// Ok returns a successful Result.
func Ok(v any) Result {
	return Result{Value: v}
}

// Fail returns a failed Result with the given issues.
func Fail(issues ...Issue) Result {
	return Result{Issues: issues}
}

// Issuef builds an Issue with a formatted message and a machine-readable code.
func Issuef(code, format string, args ...any) Issue {
	return Issue{
		Message: fmt.Sprintf(format, args...),
		Meta:    map[string]any{"code": code},
	}
}
