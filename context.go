package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/deployd-go/dashboard/pkg/middleware"
)

type rootKey struct{}

// WithRoot marks ctx as belonging to a trusted caller. Authentication
// middleware in front of the dashboard sets it.
func WithRoot(ctx context.Context, root bool) context.Context {
	return context.WithValue(ctx, rootKey{}, root)
}

// IsRoot reports whether WithRoot marked ctx as trusted.
func IsRoot(ctx context.Context) bool {
	root, _ := ctx.Value(rootKey{}).(bool)
	return root
}

// requestCtx is one request as seen by the dashboard.
type requestCtx struct {
	w http.ResponseWriter
	r *http.Request

	// url is the path relative to the mount, starting with "/".
	url    string
	query  url.Values
	isRoot bool
	route  string

	d    *Dashboard
	next http.Handler
}

func (c *requestCtx) ctx() context.Context {
	return c.r.Context()
}

func (c *requestCtx) setRoute(name string) {
	c.route = name
	middleware.SetRoute(c.ctx(), name)
}

// done completes the request with an error or a JSON value. Errors are
// reported by message only.
func (c *requestCtx) done(err error, value any) {
	if err != nil {
		c.d.logger.Warn("dashboard request failed",
			"route", c.route,
			"path", c.r.URL.Path,
			"error", err)
		middleware.RecordError(c.route, err)
		http.Error(c.w, message(err), http.StatusInternalServerError)
		return
	}
	if value == nil {
		c.w.WriteHeader(http.StatusNoContent)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		http.Error(c.w, err.Error(), http.StatusInternalServerError)
		return
	}
	c.w.Header().Set("Content-Type", "application/json")
	_, _ = c.w.Write(data)
}
