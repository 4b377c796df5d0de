package anzen

import (
	"context"
	"net/url"

	"github.com/dmitrymomot/anzen/internal/pipeline"
	"github.com/dmitrymomot/anzen/schema"
)

// RouteContext is handed to a route HandlerFunc. It embeds the request
// context. Each optional field is populated only when its option was
// configured and its stage succeeded; Has reports which ones are.
type RouteContext[A any] struct {
	context.Context

	ID           string
	URL          *url.URL
	Auth         A
	Segments     schema.Values
	SearchParams schema.Values
	Body         any
	FormData     schema.Values

	present Slot
}

func newRouteContext[A any](ctx context.Context, id string, u *url.URL, st *pipeline.State[A]) *RouteContext[A] {
	return &RouteContext[A]{
		Context:      ctx,
		ID:           id,
		URL:          u,
		Auth:         st.Auth,
		Segments:     st.Segments,
		SearchParams: st.SearchParams,
		Body:         st.Body,
		FormData:     st.FormData,
		present:      st.Slots(),
	}
}

// Has reports whether every slot in s is present.
func (c *RouteContext[A]) Has(s Slot) bool {
	return c.present.Has(s)
}

// Present returns the set of present slots.
func (c *RouteContext[A]) Present() Slot {
	return c.present
}

// BodyAs returns the validated body as T. ok is false when the body slot
// is absent or holds another type.
func BodyAs[T, A any](c *RouteContext[A]) (T, bool) {
	v, ok := c.Body.(T)
	if !ok || !c.Has(SlotBody) {
		var zero T
		return zero, false
	}
	return v, true
}
