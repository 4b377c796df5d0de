package binder

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SegmentsSource extracts the raw route segments of a request.
// ok is false when the request carries no segments at all, which is
// different from carrying segments that fail validation.
type SegmentsSource func(r *http.Request) (segments map[string]string, ok bool)

// ChiParams reads segments from the chi route context of r.
// A request that was not routed by chi, or whose route has no parameters,
// has no segments. The "*" wildcard chi records for mounted routers is
// not a segment.
func ChiParams(r *http.Request) (map[string]string, bool) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil, false
	}

	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		out[key] = rctx.URLParams.Values[i]
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Path creates a segments source from a per-name extractor such as
// chi.URLParam or a wrapper around mux.Vars. Only the listed names are
// looked up; empty values are treated as missing. The request has no
// segments when none of the names yields a value.
//
// Example with gorilla/mux:
//
//	source := binder.Path(func(r *http.Request, name string) string {
//		return mux.Vars(r)[name]
//	}, "raceId")
func Path(extractor func(r *http.Request, name string) string, names ...string) SegmentsSource {
	return func(r *http.Request) (map[string]string, bool) {
		if extractor == nil {
			return nil, false
		}

		out := make(map[string]string, len(names))
		for _, name := range names {
			if value := extractor(r, name); value != "" {
				out[name] = value
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	}
}

// Segments converts extracted segments to a raw mapping for dictionary
// validation.
func Segments(segments map[string]string) map[string]any {
	out := make(map[string]any, len(segments))
	for k, v := range segments {
		out[k] = v
	}
	return out
}
