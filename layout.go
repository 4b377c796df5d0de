package anzen

import (
	"context"
	"log/slog"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anzen/internal/pipeline"
	"github.com/dmitrymomot/anzen/pkg/async"
	"github.com/dmitrymomot/anzen/schema"
)

// DefaultLayoutID identifies layouts constructed without an ID.
const DefaultLayoutID = "[unknown:layout:server:component]"

// LayoutProps are the render inputs of a layout. Children is forwarded
// untouched; Slots holds parallel content keyed by slot name.
type LayoutProps struct {
	Params   async.Value[map[string]string]
	Children templ.Component
	Slots    map[string]templ.Component
}

// LayoutOptions configures a layout. When Slots is set, every listed name
// must be present in LayoutProps.Slots and only those are passed on.
type LayoutOptions[A any] struct {
	ID             string
	Debug          *bool
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider

	Authorize ComponentAuthorizeFunc[A]
	Segments  schema.Dictionary
	Slots     []string

	OnSegmentsValidationError IssuesErrorHook
	OnError                   ErrorHook
}

// LayoutContext is handed to a LayoutFunc.
type LayoutContext[A any] struct {
	context.Context

	ID       string
	Auth     A
	Segments schema.Values
	Children templ.Component
	Slots    map[string]templ.Component

	present Slot
}

// Has reports whether every slot in s is present.
func (c *LayoutContext[A]) Has(s Slot) bool {
	return c.present.Has(s)
}

// Present returns the set of present slots.
func (c *LayoutContext[A]) Present() Slot {
	return c.present
}

// Slot returns the named parallel content, or an empty component.
func (c *LayoutContext[A]) Slot(name string) templ.Component {
	if comp, ok := c.Slots[name]; ok && comp != nil {
		return comp
	}
	return templ.NopComponent
}

// LayoutFunc renders a layout from its validated context.
type LayoutFunc[A any] func(ctx *LayoutContext[A]) (templ.Component, error)

// Layout is a validated server-rendered layout.
type Layout[A any] struct {
	opts   LayoutOptions[A]
	fn     LayoutFunc[A]
	id     string
	log    *slog.Logger
	runner *pipeline.Runner[A, templ.Component]
}

// NewLayout resolves opts once and returns the layout.
func NewLayout[A any](opts LayoutOptions[A], fn LayoutFunc[A]) (*Layout[A], error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	c := resolve(opts.ID, DefaultLayoutID, opts.Debug, opts.Logger, opts.TracerProvider)
	failures := componentFailures{
		id:        c.id,
		component: "layout",
		onSegs:    opts.OnSegmentsValidationError,
		onError:   opts.OnError,
	}
	return &Layout[A]{
		opts: opts,
		fn:   fn,
		id:   c.id,
		log:  c.log,
		runner: pipeline.New(pipeline.Config[A, templ.Component]{
			ID:          c.id,
			Component:   "layout server component",
			Logger:      c.log,
			Tracer:      c.tracer,
			Segments:    opts.Segments,
			Fail:        failures.fail,
			Passthrough: IsControlFlow,
		}),
	}, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout[A any](opts LayoutOptions[A], fn LayoutFunc[A]) *Layout[A] {
	l, err := NewLayout(opts, fn)
	if err != nil {
		panic(err)
	}
	return l
}

// ID returns the resolved identifier.
func (l *Layout[A]) ID() string {
	return l.id
}

// Render runs the pipeline and returns the layout's component.
func (l *Layout[A]) Render(ctx context.Context, props LayoutProps) (templ.Component, error) {
	var slots map[string]templ.Component

	call := pipeline.Call[A, templ.Component]{
		Segments: paramsSource(props.Params),
		Invoke: func(ctx context.Context, st *pipeline.State[A]) (templ.Component, error) {
			if props.Children != nil {
				st.Mark(pipeline.SlotChildren)
			}
			return nonNil(l.fn(&LayoutContext[A]{
				Context:  ctx,
				ID:       l.id,
				Auth:     st.Auth,
				Segments: st.Segments,
				Children: props.Children,
				Slots:    slots,
				present:  st.Slots(),
			}))
		},
	}
	if l.opts.Authorize != nil {
		call.Authorize = componentAuthorize[A, templ.Component](l.id, props.Params, l.opts.Authorize)
	}
	if len(l.opts.Slots) > 0 {
		call.Stages = []pipeline.Stage[A]{{
			Name: "slots",
			Run: func(ctx context.Context, st *pipeline.State[A]) error {
				var missing []string
				slots = make(map[string]templ.Component, len(l.opts.Slots))
				for _, name := range l.opts.Slots {
					comp, ok := props.Slots[name]
					if !ok {
						missing = append(missing, name)
						continue
					}
					slots[name] = comp
				}
				if len(missing) > 0 {
					return &pipeline.Failure{Kind: pipeline.KindSlots, Missing: missing}
				}
				st.Mark(pipeline.SlotNamedSlots)
				return nil
			},
		}}
	}
	return l.runner.Run(ctx, call)
}

// Component returns a templ.Component that runs the pipeline when rendered.
func (l *Layout[A]) Component(props LayoutProps) templ.Component {
	return deferred(func(ctx context.Context) (templ.Component, error) {
		return l.Render(ctx, props)
	})
}
