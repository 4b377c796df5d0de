package environment

import "net/http"

// Middleware stores env in every request context so handlers and log
// extractors can read it with FromContext.
func Middleware(env Environment) func(http.Handler) http.Handler {
	env = Parse(string(env))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}
