package binder

import (
	"net/http"
)

// Query returns the query parameters of r prepared for dictionary validation.
//
// Example:
//
//	// GET /search?query=a&query=b&page=2
//	raw := binder.Query(r)
//	// raw == map[string]any{"query": []string{"a", "b"}, "page": "2"}
func Query(r *http.Request) map[string]any {
	return Coerce(r.URL.Query())
}

// Coerce collapses multi-value entries: a key occurring once maps to its
// string, a key occurring several times maps to the ordered []string.
// Keys without values are left out.
func Coerce(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
			continue
		case 1:
			out[key] = vals[0]
		default:
			out[key] = append([]string(nil), vals...)
		}
	}
	return out
}
