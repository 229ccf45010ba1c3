package middleware

import (
	"context"
	"net/http"
)

// Unmatched labels requests that never reached a dashboard route.
const Unmatched = "unmatched"

type routeKey struct{}

type routeHolder struct {
	name string
}

// withRoute ensures r carries a route holder and returns it.
func withRoute(r *http.Request) (*http.Request, *routeHolder) {
	if h, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
		return r, h
	}
	h := &routeHolder{}
	return r.WithContext(context.WithValue(r.Context(), routeKey{}, h)), h
}

// SetRoute labels the request with the route it matched. It is a no-op
// when no middleware from this package wraps the handler.
func SetRoute(ctx context.Context, name string) {
	if h, ok := ctx.Value(routeKey{}).(*routeHolder); ok {
		h.name = name
	}
}

// Route returns the label set with SetRoute, or Unmatched.
func Route(ctx context.Context) string {
	if h, ok := ctx.Value(routeKey{}).(*routeHolder); ok && h.name != "" {
		return h.name
	}
	return Unmatched
}

func (h *routeHolder) label() string {
	if h.name == "" {
		return Unmatched
	}
	return h.name
}
