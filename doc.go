// Package anzen validates the inputs of HTTP route handlers and
// server-rendered templ components before running them.
//
// A route handler declares the shape of its route segments, query
// parameters and JSON body or form data. Each request runs through a fixed
// sequence of stages: authorize, segments, search params, body or form
// data, then the handler itself. The handler receives a RouteContext whose
// optional fields are set only when the matching option was given and its
// stage succeeded.
//
//	races := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
//		ID: "/api/races",
//		Body: schema.Object(schema.Dictionary{
//			{Name: "name", Schema: schema.String()},
//			{Name: "location", Schema: schema.String()},
//		}),
//	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
//		return anzen.JSON(map[string]any{"race": ctx.Body}), nil
//	})
//
//	router.Post("/api/races", races.ServeHTTP)
//
// Failures resolve to responses. Missing or invalid segments, invalid
// search params, body or form data produce 400 unless an On*ValidationError
// hook supplies another response. A body or form-data route called with a
// method other than POST, PUT or PATCH answers 405; form data with another
// content type answers 415. Read errors, authorize errors, handler errors
// and panics go to OnError, 500 by default.
//
// # Server components
//
// Pages and layouts run the same stages on PageProps and LayoutProps, whose
// params may still be pending. Failures are returned as errors:
// *ValidationError, *NoSegmentsProvidedError, *NoSearchParamsProvidedError,
// *MissingLayoutSlotsError, or the handler's own error. Hooks can replace
// these errors but never turn them into success.
//
// Redirect, NotFound, Forbidden and Unauthorized return control-flow
// signals. They pass through without error logging and without OnError;
// ServePage and ServeLayout translate them into HTTP responses.
//
// # Schemas
//
// Validation is delegated to the schema.Schema contract. Dictionaries must
// complete synchronously; a pending result panics with
// *schema.SyncViolationError.
//
// # Logging and tracing
//
// Each run logs through the configured *slog.Logger and records an
// OpenTelemetry span with one event per stage. Logging is enabled when
// Debug is true, or when Debug is unset and APP_ENV is not production or
// ANZEN_DEBUG is true.
//
// # Configuration
//
// Constructors read APP_ENV, ANZEN_DEBUG and ANZEN_MAX_MEMORY from the
// process environment through LoadSettings. The package never loads .env
// files; an application that keeps these variables there loads them
// itself, for example with config.Load, before building handlers.
package anzen
