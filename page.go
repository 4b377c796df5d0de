package anzen

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anzen/internal/pipeline"
	"github.com/dmitrymomot/anzen/pkg/async"
	"github.com/dmitrymomot/anzen/schema"
)

// DefaultPageID identifies pages constructed without an ID.
const DefaultPageID = "[unknown:page:server:component]"

// PageProps are the render inputs of a page. Either value may be resolved
// or still pending; a zero value means not provided.
type PageProps struct {
	Params       async.Value[map[string]string]
	SearchParams async.Value[url.Values]
}

// PageOptions configures a page. Every field is optional.
type PageOptions[A any] struct {
	ID             string
	Debug          *bool
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider

	Authorize    ComponentAuthorizeFunc[A]
	Segments     schema.Dictionary
	SearchParams schema.Dictionary

	OnSegmentsValidationError     IssuesErrorHook
	OnSearchParamsValidationError IssuesErrorHook
	OnError                       ErrorHook
}

// PageContext is handed to a PageFunc.
type PageContext[A any] struct {
	context.Context

	ID           string
	Auth         A
	Segments     schema.Values
	SearchParams schema.Values

	present Slot
}

// Has reports whether every slot in s is present.
func (c *PageContext[A]) Has(s Slot) bool {
	return c.present.Has(s)
}

// Present returns the set of present slots.
func (c *PageContext[A]) Present() Slot {
	return c.present
}

// PageFunc renders a page from its validated context.
type PageFunc[A any] func(ctx *PageContext[A]) (templ.Component, error)

// Page is a validated server-rendered page.
type Page[A any] struct {
	opts   PageOptions[A]
	fn     PageFunc[A]
	id     string
	log    *slog.Logger
	runner *pipeline.Runner[A, templ.Component]
}

// NewPage resolves opts once and returns the page.
func NewPage[A any](opts PageOptions[A], fn PageFunc[A]) (*Page[A], error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	c := resolve(opts.ID, DefaultPageID, opts.Debug, opts.Logger, opts.TracerProvider)
	failures := componentFailures{
		id:        c.id,
		component: "page",
		onSegs:    opts.OnSegmentsValidationError,
		onSearch:  opts.OnSearchParamsValidationError,
		onError:   opts.OnError,
	}
	return &Page[A]{
		opts: opts,
		fn:   fn,
		id:   c.id,
		log:  c.log,
		runner: pipeline.New(pipeline.Config[A, templ.Component]{
			ID:           c.id,
			Component:    "page server component",
			Logger:       c.log,
			Tracer:       c.tracer,
			Segments:     opts.Segments,
			SearchParams: opts.SearchParams,
			Fail:         failures.fail,
			Passthrough:  IsControlFlow,
		}),
	}, nil
}

// MustPage is like NewPage but panics on error.
func MustPage[A any](opts PageOptions[A], fn PageFunc[A]) *Page[A] {
	p, err := NewPage(opts, fn)
	if err != nil {
		panic(err)
	}
	return p
}

// ID returns the resolved identifier.
func (p *Page[A]) ID() string {
	return p.id
}

// Render runs the pipeline and returns the page's component, or the
// error describing why it could not be produced.
func (p *Page[A]) Render(ctx context.Context, props PageProps) (templ.Component, error) {
	call := pipeline.Call[A, templ.Component]{
		Segments:     paramsSource(props.Params),
		SearchParams: searchSource(props.SearchParams),
		Invoke: func(ctx context.Context, st *pipeline.State[A]) (templ.Component, error) {
			return nonNil(p.fn(&PageContext[A]{
				Context:      ctx,
				ID:           p.id,
				Auth:         st.Auth,
				Segments:     st.Segments,
				SearchParams: st.SearchParams,
				present:      st.Slots(),
			}))
		},
	}
	if p.opts.Authorize != nil {
		call.Authorize = componentAuthorize[A, templ.Component](p.id, props.Params, p.opts.Authorize)
	}
	return p.runner.Run(ctx, call)
}

// Component returns a templ.Component that runs the pipeline when rendered.
// Pipeline failures are returned from its Render method.
func (p *Page[A]) Component(props PageProps) templ.Component {
	return deferred(func(ctx context.Context) (templ.Component, error) {
		return p.Render(ctx, props)
	})
}

func componentAuthorize[A, R any](id string, params async.Value[map[string]string], fn ComponentAuthorizeFunc[A]) func(context.Context) (pipeline.Verdict[A, R], error) {
	return func(ctx context.Context) (pipeline.Verdict[A, R], error) {
		auth, err := fn(ctx, ComponentAuthorizeParams{ID: id, Params: params})
		if err != nil {
			return pipeline.Verdict[A, R]{}, err
		}
		return pipeline.Verdict[A, R]{Allow: true, Auth: auth}, nil
	}
}
