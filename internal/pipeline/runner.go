// Package pipeline sequences the stages shared by route handlers and server
// components: authorize, segments, search params, variant-specific stages,
// then the handler itself.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anzen/pkg/clock"
	"github.com/dmitrymomot/anzen/pkg/logger"
	"github.com/dmitrymomot/anzen/schema"
)

// TracerName is the instrumentation name used for spans.
const TracerName = "github.com/dmitrymomot/anzen"

// Verdict is the outcome of an authorize call. When Allow is false, Deny is
// returned to the caller as the run's result.
type Verdict[A, R any] struct {
	Allow bool
	Auth  A
	Deny  R
}

// Source yields raw input for a dictionary stage. ok is false when the
// input was not provided at all.
type Source func(ctx context.Context) (raw map[string]any, ok bool, err error)

// Stage is a variant-specific step run after search params. Returning a
// *Failure selects its kind; any other error is internal.
type Stage[A any] struct {
	Name string
	Run  func(ctx context.Context, st *State[A]) error
}

// Config is resolved once per handler or component and shared by all runs.
type Config[A, R any] struct {
	ID        string
	Component string
	Logger    *slog.Logger
	Tracer    trace.Tracer

	// Segments and SearchParams enable their stages when non-nil.
	Segments     schema.Dictionary
	SearchParams schema.Dictionary

	// Fail converts a failure to the variant's result.
	Fail func(ctx context.Context, f *Failure) (R, error)

	// Passthrough reports authorize or handler errors returned untouched,
	// without error logging and without Fail.
	Passthrough func(err error) bool
}

// Call carries the per-run inputs.
type Call[A, R any] struct {
	// Authorize is nil when no authorization is configured.
	Authorize    func(ctx context.Context) (Verdict[A, R], error)
	Segments     Source
	SearchParams Source
	Stages       []Stage[A]
	Invoke       func(ctx context.Context, st *State[A]) (R, error)
}

// Runner executes calls in the fixed stage order.
type Runner[A, R any] struct {
	cfg Config[A, R]
	log *slog.Logger
}

// New returns a runner for cfg.
func New[A, R any](cfg Config[A, R]) *Runner[A, R] {
	if cfg.Tracer == nil {
		cfg.Tracer = otel.GetTracerProvider().Tracer(TracerName)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Runner[A, R]{
		cfg: cfg,
		log: log.With(logger.Component(cfg.Component), logger.Handler(cfg.ID)),
	}
}

// Run executes call. A *schema.SyncViolationError raised by a dictionary
// stage is not recovered.
func (r *Runner[A, R]) Run(ctx context.Context, call Call[A, R]) (R, error) {
	ctx, span := r.cfg.Tracer.Start(ctx, r.cfg.Component+" "+r.cfg.ID,
		trace.WithAttributes(
			attribute.String("anzen.id", r.cfg.ID),
			attribute.String("anzen.component", r.cfg.Component),
		),
	)
	defer span.End()

	r.log.DebugContext(ctx, fmt.Sprintf("running %s '%s'", r.cfg.Component, r.cfg.ID))

	st := &State[A]{}
	defer st.cleanup()
	st.Mark(SlotID)

	if call.Authorize != nil {
		span.AddEvent("authorize")
		verdict, err := call.Authorize(ctx)
		if err != nil {
			if r.passthrough(ctx, span, err) {
				var zero R
				return zero, err
			}
			return r.fail(ctx, span, &Failure{Kind: KindAuthorize, Err: err})
		}
		if !verdict.Allow {
			r.log.InfoContext(ctx, "request denied by authorize")
			span.SetAttributes(attribute.Bool("anzen.denied", true))
			return verdict.Deny, nil
		}
		st.Auth = verdict.Auth
		st.Mark(SlotAuth)
	}

	if r.cfg.Segments != nil {
		span.AddEvent("segments")
		values, f := r.dictionary(ctx, r.cfg.Segments, call.Segments, KindNoSegments, KindSegments)
		if f != nil {
			return r.fail(ctx, span, f)
		}
		st.Segments = values
		st.Mark(SlotSegments)
	}

	if r.cfg.SearchParams != nil {
		span.AddEvent("search_params")
		values, f := r.dictionary(ctx, r.cfg.SearchParams, call.SearchParams, KindNoSearchParams, KindSearchParams)
		if f != nil {
			return r.fail(ctx, span, f)
		}
		st.SearchParams = values
		st.Mark(SlotSearchParams)
	}

	for _, stage := range call.Stages {
		span.AddEvent(stage.Name)
		if err := stage.Run(ctx, st); err != nil {
			return r.fail(ctx, span, AsFailure(err))
		}
	}

	span.AddEvent("invoke")
	clk := clock.New()
	clk.Start()
	out, err := r.invoke(ctx, call, st)
	clk.Stop()

	span.SetAttributes(attribute.String("anzen.duration", clk.String()))
	r.log.DebugContext(ctx, "handler completed", logger.Duration(clk.String()))

	if err != nil {
		if r.passthrough(ctx, span, err) {
			return out, err
		}
		return r.fail(ctx, span, &Failure{Kind: KindHandler, Err: err})
	}
	return out, nil
}

func (r *Runner[A, R]) passthrough(ctx context.Context, span trace.Span, err error) bool {
	if r.cfg.Passthrough == nil || !r.cfg.Passthrough(err) {
		return false
	}
	r.log.DebugContext(ctx, "control flow signal", logger.Error(err))
	span.AddEvent("control_flow")
	return true
}

func (r *Runner[A, R]) dictionary(ctx context.Context, dict schema.Dictionary, src Source, absent, invalid Kind) (schema.Values, *Failure) {
	if src == nil {
		return nil, &Failure{Kind: absent}
	}
	raw, ok, err := src(ctx)
	if err != nil {
		return nil, &Failure{Kind: KindInternal, Err: err}
	}
	if !ok {
		return nil, &Failure{Kind: absent}
	}

	res, err := MustSync(schema.ValidateDictionary(dict, raw))
	if err != nil {
		return nil, &Failure{Kind: KindInternal, Err: err}
	}
	if !res.OK() {
		return nil, &Failure{Kind: invalid, Issues: res.Issues}
	}
	values, _ := res.Value.(schema.Values)
	return values, nil
}

func (r *Runner[A, R]) invoke(ctx context.Context, call Call[A, R], st *State[A]) (out R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
	}()
	return call.Invoke(ctx, st)
}

func (r *Runner[A, R]) fail(ctx context.Context, span trace.Span, f *Failure) (R, error) {
	attrs := []any{logger.Stage(f.Kind.String())}
	if len(f.Issues) > 0 {
		attrs = append(attrs, logger.Issues(f.Issues))
	}
	if f.Err != nil {
		attrs = append(attrs, logger.Error(f.Err))
	}

	span.SetAttributes(attribute.String("anzen.failure", f.Kind.String()))
	if f.Kind.ClientError() {
		r.log.WarnContext(ctx, "request rejected", attrs...)
	} else {
		r.log.ErrorContext(ctx, "request failed", attrs...)
		span.RecordError(f)
		span.SetStatus(codes.Error, f.Kind.String())
	}

	return r.cfg.Fail(ctx, f)
}

// MustSync passes a validator result through, panicking when the schema
// broke the synchronous contract.
func MustSync(res schema.Result, err error) (schema.Result, error) {
	var sv *schema.SyncViolationError
	if errors.As(err, &sv) {
		panic(sv)
	}
	return res, err
}
