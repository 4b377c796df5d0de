package anzen

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/anzen/pkg/async"
)

// Decision is the result of a route authorize function.
// Build it with Allow or Deny.
type Decision[A any] struct {
	allowed bool
	auth    A
	deny    Response
}

// Allow lets the request through; auth becomes the context's Auth slot.
func Allow[A any](auth A) Decision[A] {
	return Decision[A]{allowed: true, auth: auth}
}

// Deny stops the request and renders resp. A nil resp renders
// 401 "Unauthorized".
func Deny[A any](resp Response) Decision[A] {
	if resp == nil {
		resp = Text(http.StatusUnauthorized, "Unauthorized")
	}
	return Decision[A]{deny: resp}
}

// Allowed reports whether the decision lets the request through.
func (d Decision[A]) Allowed() bool {
	return d.allowed
}

// AuthorizeParams is the input of a route authorize function.
// Request is a duplicate; its body is buffered on first read, so reading
// it leaves the original intact and not reading it costs nothing.
type AuthorizeParams struct {
	ID      string
	URL     *url.URL
	Request *http.Request
}

// AuthorizeFunc decides whether a route request may proceed. A returned
// error is handed to OnError.
type AuthorizeFunc[A any] func(ctx context.Context, p AuthorizeParams) (Decision[A], error)

// ComponentAuthorizeParams is the input of a page or layout authorize
// function. Params are the raw, unvalidated route params.
type ComponentAuthorizeParams struct {
	ID     string
	Params async.Value[map[string]string]
}

// ComponentAuthorizeFunc returns the auth value for a page or layout.
// A returned error propagates unchanged; control-flow signals such as
// NotFound are allowed.
type ComponentAuthorizeFunc[A any] func(ctx context.Context, p ComponentAuthorizeParams) (A, error)
