package anzen

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/anzen/binder"
	"github.com/dmitrymomot/anzen/pkg/async"
	"github.com/dmitrymomot/anzen/pkg/logger"
	"github.com/dmitrymomot/anzen/pkg/requestid"
)

// View builds the component to render for a request.
type View func(r *http.Request) templ.Component

// PropsFromRequest builds page props from chi route params and the query.
// Params are absent when the route has none.
func PropsFromRequest(r *http.Request) PageProps {
	props := PageProps{SearchParams: async.Resolved(r.URL.Query())}
	if params, ok := binder.ChiParams(r); ok {
		props.Params = async.Resolved(params)
	}
	return props
}

// View returns the page as a View fed by PropsFromRequest.
func (p *Page[A]) View() View {
	return func(r *http.Request) templ.Component {
		return p.Component(PropsFromRequest(r))
	}
}

// View returns the layout wrapping children, with slots built per request.
func (l *Layout[A]) View(children View, slots map[string]View) View {
	return func(r *http.Request) templ.Component {
		props := LayoutProps{Params: PropsFromRequest(r).Params}
		if children != nil {
			props.Children = children(r)
		}
		if slots != nil {
			props.Slots = make(map[string]templ.Component, len(slots))
			for name, v := range slots {
				props.Slots[name] = v(r)
			}
		}
		return l.Component(props)
	}
}

// ServePage mounts a page as an http.Handler.
func ServePage[A any](p *Page[A]) http.Handler {
	return Serve(p.View(), p.log)
}

// ServeLayout mounts a layout around children as an http.Handler.
func ServeLayout[A any](l *Layout[A], children View, slots map[string]View) http.Handler {
	return Serve(l.View(children, slots), l.log)
}

// Serve renders v into a buffer and writes it as HTML. Redirect signals
// become redirects, NotFound, Forbidden and Unauthorized their status,
// validation and missing-input errors 400, anything else 500.
func Serve(v View, log *slog.Logger) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		err := v(r).Render(r.Context(), &buf)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = buf.WriteTo(w)
			return
		}

		if status, location, ok := controlFlowStatus(err); ok {
			if location != "" {
				_ = RedirectTo(location, status).Render(w, r)
				return
			}
			http.Error(w, http.StatusText(status), status)
			return
		}

		status := errorStatus(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "component render failed",
				logger.RequestID(requestid.FromContext(r.Context())),
				logger.Status(status),
				logger.Error(err),
			)
		}
		http.Error(w, http.StatusText(status), status)
	})
}

func errorStatus(err error) int {
	var (
		ve  *ValidationError
		nse *NoSegmentsProvidedError
		nsp *NoSearchParamsProvidedError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &nse), errors.As(err, &nsp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
