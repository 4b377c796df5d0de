package anzen

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anzen/binder"
	"github.com/dmitrymomot/anzen/internal/pipeline"
	"github.com/dmitrymomot/anzen/pkg/logger"
	"github.com/dmitrymomot/anzen/pkg/requestid"
	"github.com/dmitrymomot/anzen/schema"
)

// DefaultRouteID identifies route handlers constructed without an ID.
const DefaultRouteID = "[unknown:route:handler]"

// IssuesHook builds the response for a validation failure.
type IssuesHook func(ctx context.Context, issues []schema.Issue) Response

// RouteOptions configures a route handler. Every field is optional, but
// Body and FormData are mutually exclusive. Hooks returning nil fall back
// to the default plain-text response.
type RouteOptions[A any] struct {
	ID             string
	Debug          *bool
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider

	Authorize AuthorizeFunc[A]

	Segments       schema.Dictionary
	SegmentsSource binder.SegmentsSource // default binder.ChiParams
	SearchParams   schema.Dictionary
	Body           schema.Schema
	FormData       schema.Dictionary
	MaxMemory      int64 // multipart memory; default from Settings

	OnNoSegments                  func(ctx context.Context) Response
	OnSegmentsValidationError     IssuesHook
	OnSearchParamsValidationError IssuesHook
	OnBodyValidationError         IssuesHook
	OnFormDataValidationError     IssuesHook
	OnError                       func(ctx context.Context, err error) Response
}

// HandlerFunc is the body of a route handler. r is the original request
// with its body unread.
type HandlerFunc[A any] func(ctx *RouteContext[A], r *http.Request) (Response, error)

// RouteHandler validates requests and runs a HandlerFunc. It implements
// http.Handler and is safe for concurrent use.
type RouteHandler[A any] struct {
	opts   RouteOptions[A]
	fn     HandlerFunc[A]
	id     string
	log    *slog.Logger
	runner *pipeline.Runner[A, Response]
	segSrc binder.SegmentsSource
	maxMem int64
}

var bodyMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// NewRouteHandler resolves opts once and returns the handler.
func NewRouteHandler[A any](opts RouteOptions[A], fn HandlerFunc[A]) (*RouteHandler[A], error) {
	if opts.Body != nil && opts.FormData != nil {
		return nil, ErrBodyAndFormData
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	c := resolve(opts.ID, DefaultRouteID, opts.Debug, opts.Logger, opts.TracerProvider)
	h := &RouteHandler[A]{
		opts:   opts,
		fn:     fn,
		id:     c.id,
		log:    c.log,
		segSrc: opts.SegmentsSource,
		maxMem: c.limit,
	}
	if h.segSrc == nil {
		h.segSrc = binder.ChiParams
	}
	if opts.MaxMemory > 0 {
		h.maxMem = opts.MaxMemory
	}

	h.runner = pipeline.New(pipeline.Config[A, Response]{
		ID:           c.id,
		Component:    "route handler",
		Logger:       c.log,
		Tracer:       c.tracer,
		Segments:     opts.Segments,
		SearchParams: opts.SearchParams,
		Fail:         h.fail,
	})
	return h, nil
}

// MustRouteHandler is like NewRouteHandler but panics on error.
func MustRouteHandler[A any](opts RouteOptions[A], fn HandlerFunc[A]) *RouteHandler[A] {
	h, err := NewRouteHandler(opts, fn)
	if err != nil {
		panic(err)
	}
	return h
}

// ID returns the resolved identifier.
func (h *RouteHandler[A]) ID() string {
	return h.id
}

// Handle runs the pipeline for r and always returns a response.
func (h *RouteHandler[A]) Handle(r *http.Request) Response {
	call := pipeline.Call[A, Response]{
		Segments: func(context.Context) (map[string]any, bool, error) {
			segments, ok := h.segSrc(r)
			if !ok {
				return nil, false, nil
			}
			return binder.Segments(segments), true, nil
		},
		SearchParams: func(context.Context) (map[string]any, bool, error) {
			return binder.Query(r), true, nil
		},
		Invoke: func(ctx context.Context, st *pipeline.State[A]) (Response, error) {
			st.Mark(pipeline.SlotURL)
			resp, err := h.fn(newRouteContext(ctx, h.id, r.URL, st), r)
			if err != nil {
				return nil, err
			}
			if resp == nil {
				return nil, ErrNilResponse
			}
			return resp, nil
		},
	}

	if h.opts.Authorize != nil {
		call.Authorize = func(ctx context.Context) (pipeline.Verdict[A, Response], error) {
			return h.authorize(ctx, r)
		}
	}
	switch {
	case h.opts.Body != nil:
		call.Stages = []pipeline.Stage[A]{{Name: "body", Run: h.bodyStage(r)}}
	case h.opts.FormData != nil:
		call.Stages = []pipeline.Stage[A]{{Name: "form_data", Run: h.formStage(r)}}
	}

	resp, err := h.runner.Run(r.Context(), call)
	if err != nil || resp == nil {
		// Fail always yields a response; this guards a hook returning an error.
		return h.defaultError()
	}
	return resp
}

// ServeHTTP implements http.Handler. Render failures are logged.
func (h *RouteHandler[A]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Handle(r).Render(w, r); err != nil {
		h.log.ErrorContext(r.Context(), "response render failed",
			logger.Handler(h.id),
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
		)
	}
}

func (h *RouteHandler[A]) authorize(ctx context.Context, r *http.Request) (pipeline.Verdict[A, Response], error) {
	var v pipeline.Verdict[A, Response]
	d, err := h.opts.Authorize(ctx, AuthorizeParams{ID: h.id, URL: r.URL, Request: binder.DuplicateOnRead(r)})
	if err != nil {
		return v, err
	}
	if !d.allowed {
		v.Deny = d.deny
		if v.Deny == nil {
			v.Deny = Text(http.StatusUnauthorized, "Unauthorized")
		}
		return v, nil
	}
	return pipeline.Verdict[A, Response]{Allow: true, Auth: d.auth}, nil
}

func (h *RouteHandler[A]) bodyStage(r *http.Request) func(context.Context, *pipeline.State[A]) error {
	return func(ctx context.Context, st *pipeline.State[A]) error {
		if !bodyMethods[r.Method] {
			return &pipeline.Failure{Kind: pipeline.KindMethod}
		}
		dup, err := binder.Duplicate(r)
		if err != nil {
			return &pipeline.Failure{Kind: pipeline.KindRead, Err: err}
		}
		raw, err := binder.JSON(dup)
		if err != nil {
			return &pipeline.Failure{Kind: pipeline.KindRead, Err: err}
		}

		res, err := pipeline.MustSync(schema.ValidateSync(h.opts.Body, raw))
		if err != nil {
			return &pipeline.Failure{Kind: pipeline.KindInternal, Err: err}
		}
		if !res.OK() {
			return &pipeline.Failure{Kind: pipeline.KindBody, Issues: res.Issues}
		}
		st.Body = res.Value
		st.Mark(pipeline.SlotBody)
		return nil
	}
}

func (h *RouteHandler[A]) formStage(r *http.Request) func(context.Context, *pipeline.State[A]) error {
	return func(ctx context.Context, st *pipeline.State[A]) error {
		if !bodyMethods[r.Method] {
			return &pipeline.Failure{Kind: pipeline.KindMethod}
		}
		if err := binder.CheckFormContentType(r); err != nil {
			return &pipeline.Failure{Kind: pipeline.KindContentType, Err: err}
		}
		dup, err := binder.Duplicate(r)
		if err != nil {
			return &pipeline.Failure{Kind: pipeline.KindRead, Err: err}
		}
		raw, err := binder.Form(dup, h.maxMem)
		if form := dup.MultipartForm; form != nil {
			// net/http only removes the temp files of the request it dispatched.
			st.Cleanup(func() { _ = form.RemoveAll() })
		}
		if err != nil {
			return &pipeline.Failure{Kind: pipeline.KindRead, Err: err}
		}

		res, err := pipeline.MustSync(schema.ValidateDictionary(h.opts.FormData, raw))
		if err != nil {
			return &pipeline.Failure{Kind: pipeline.KindInternal, Err: err}
		}
		if !res.OK() {
			return &pipeline.Failure{Kind: pipeline.KindFormData, Issues: res.Issues}
		}
		st.FormData, _ = res.Value.(schema.Values)
		st.Mark(pipeline.SlotFormData)
		return nil
	}
}

func (h *RouteHandler[A]) fail(ctx context.Context, f *pipeline.Failure) (Response, error) {
	var resp, fallback Response

	switch f.Kind {
	case pipeline.KindNoSegments:
		fallback = Text(http.StatusBadRequest, "No segments provided")
		if h.opts.OnNoSegments != nil {
			resp = h.opts.OnNoSegments(ctx)
		}
	case pipeline.KindSegments:
		fallback = Text(http.StatusBadRequest, "Invalid segments")
		resp = callIssues(ctx, h.opts.OnSegmentsValidationError, f.Issues)
	case pipeline.KindSearchParams:
		fallback = Text(http.StatusBadRequest, "Invalid search params")
		resp = callIssues(ctx, h.opts.OnSearchParamsValidationError, f.Issues)
	case pipeline.KindBody:
		fallback = Text(http.StatusBadRequest, "Invalid body")
		resp = callIssues(ctx, h.opts.OnBodyValidationError, f.Issues)
	case pipeline.KindFormData:
		fallback = Text(http.StatusBadRequest, "Invalid form data")
		resp = callIssues(ctx, h.opts.OnFormDataValidationError, f.Issues)
	case pipeline.KindMethod:
		resp = withHeader(Text(http.StatusMethodNotAllowed, "Method not allowed"), "Allow", "POST, PUT, PATCH")
	case pipeline.KindContentType:
		resp = Text(http.StatusUnsupportedMediaType, "Unsupported media type")
	default:
		fallback = h.defaultError()
		if h.opts.OnError != nil {
			resp = h.opts.OnError(ctx, cause(f))
		}
	}

	if resp == nil {
		resp = fallback
	}
	return resp, nil
}

func (h *RouteHandler[A]) defaultError() Response {
	return Text(http.StatusInternalServerError, "Internal server error")
}

func callIssues(ctx context.Context, hook IssuesHook, issues []schema.Issue) Response {
	if hook == nil {
		return nil
	}
	return hook(ctx, issues)
}

// cause unwraps the stage wrapper so OnError sees the original error.
func cause(f *pipeline.Failure) error {
	if f.Err != nil {
		return f.Err
	}
	return f
}
