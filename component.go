package anzen

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/anzen/binder"
	"github.com/dmitrymomot/anzen/internal/pipeline"
	"github.com/dmitrymomot/anzen/pkg/async"
	"github.com/dmitrymomot/anzen/schema"
)

// IssuesErrorHook may replace the error returned for a validation failure.
// A nil return keeps the default *ValidationError.
type IssuesErrorHook func(ctx context.Context, issues []schema.Issue) error

// ErrorHook may replace a handler error. A nil return keeps the original.
type ErrorHook func(ctx context.Context, err error) error

// componentFailures converts pipeline failures to the errors returned by
// pages and layouts. A failure is never turned into success.
type componentFailures struct {
	id        string
	component string
	onSegs    IssuesErrorHook
	onSearch  IssuesErrorHook
	onError   ErrorHook
}

func (c componentFailures) fail(ctx context.Context, f *pipeline.Failure) (templ.Component, error) {
	switch f.Kind {
	case pipeline.KindAuthorize:
		return nil, f.Err
	case pipeline.KindNoSegments:
		return nil, &NoSegmentsProvidedError{ID: c.id, Component: c.component}
	case pipeline.KindNoSearchParams:
		return nil, &NoSearchParamsProvidedError{ID: c.id, Component: c.component}
	case pipeline.KindSegments:
		def := &ValidationError{Source: SourceSegments, ID: c.id, Component: c.component, Issues: f.Issues}
		return nil, escalate(ctx, def, c.onSegs, f.Issues)
	case pipeline.KindSearchParams:
		def := &ValidationError{Source: SourceSearchParams, ID: c.id, Component: c.component, Issues: f.Issues}
		return nil, escalate(ctx, def, c.onSearch, f.Issues)
	case pipeline.KindSlots:
		return nil, &MissingLayoutSlotsError{ID: c.id, Missing: f.Missing}
	case pipeline.KindHandler:
		if c.onError != nil {
			if err := c.onError(ctx, f.Err); err != nil {
				return nil, err
			}
		}
		return nil, f.Err
	default:
		return nil, cause(f)
	}
}

func escalate(ctx context.Context, def error, hook IssuesErrorHook, issues []schema.Issue) error {
	if hook == nil {
		return def
	}
	if err := hook(ctx, issues); err != nil {
		return err
	}
	return def
}

func paramsSource(v async.Value[map[string]string]) pipeline.Source {
	return func(ctx context.Context) (map[string]any, bool, error) {
		if !v.Present() {
			return nil, false, nil
		}
		params, err := v.Await(ctx)
		if err != nil {
			return nil, false, err
		}
		if params == nil {
			return nil, false, nil
		}
		return binder.Segments(params), true, nil
	}
}

func searchSource(v async.Value[url.Values]) pipeline.Source {
	return func(ctx context.Context) (map[string]any, bool, error) {
		if !v.Present() {
			return nil, false, nil
		}
		query, err := v.Await(ctx)
		if err != nil {
			return nil, false, err
		}
		if query == nil {
			return nil, false, nil
		}
		return binder.Coerce(query), true, nil
	}
}

// deferred renders the component produced by run at render time, so a
// failing page surfaces as a Render error of the enclosing component.
func deferred(run func(ctx context.Context) (templ.Component, error)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		c, err := run(ctx)
		if err != nil {
			return err
		}
		return c.Render(ctx, w)
	})
}

func nonNil(c templ.Component, err error) (templ.Component, error) {
	if err == nil && c == nil {
		return nil, ErrNilComponent
	}
	return c, err
}
