// Package dashboard serves an administrative console for the resources of
// a host application server.
//
// A Dashboard is an http.Handler mounted under a path. For each request
// it picks a page (resource editor, deployments, modules, auth gate) or a
// raw asset, and composes pages from a cached layout plus a body, script
// list and stylesheet resolved per resource:
//
//	d := dashboard.New(dashboard.Config{
//	    MountPath: "/dashboard",
//	    Env:       "production",
//	    Registry:  registry,
//	})
//
//	r := chi.NewRouter()
//	r.Mount("/dashboard", d.Handler(apiHandler))
//
// Resource types may ship their own dashboard directory holding
// <page>.html, js/<page>.js and style.css. Pages without one use the
// built-in editors.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/deployd-go/dashboard/internal/templates"
	"github.com/deployd-go/dashboard/pkg/layout"
	"github.com/deployd-go/dashboard/pkg/middleware"
	"github.com/deployd-go/dashboard/pkg/page"
)

// Dashboard is the console handler. It is safe for concurrent use.
type Dashboard struct {
	config   Config
	mount    string
	resolver *page.Resolver
	layouts  *layout.Cache
	logger   *slog.Logger
	routes   []route
}

var _ http.Handler = (*Dashboard)(nil)

// New creates a Dashboard. The layout is loaded on the first page request
// or by Warm.
func New(cfg Config) *Dashboard {
	cfg = cfg.withDefaults()

	d := &Dashboard{
		config: cfg,
		mount:  cfg.MountPath,
		logger: cfg.Logger,
		resolver: page.NewResolver(page.Config{
			Registry:  cfg.Registry,
			Files:     cfg.Files,
			Templates: cfg.Templates,
			Assets:    cfg.Assets,
			Logger:    cfg.Logger,
		}),
	}
	d.layouts = layout.NewCache(cfg.Templates, templates.Layout, layout.WithOnCompile(func() {
		d.logger.Info("dashboard layout compiled", "file", templates.Layout)
		middleware.RecordLayoutCompile()
		if cfg.OnLayoutCompile != nil {
			cfg.OnLayoutCompile()
		}
	}))
	d.routes = d.table()
	return d
}

// ServeHTTP serves the dashboard. Requests it does not handle get a 404.
func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.serve(w, r, http.NotFoundHandler())
}

// Handler returns the dashboard as a handler that passes requests it does
// not handle, such as unknown /__custom assets, to next.
func (d *Dashboard) Handler(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.serve(w, r, next)
	})
}

// Warm loads and compiles the layout ahead of the first request. A
// failure is returned and retried on the next page request.
func (d *Dashboard) Warm(ctx context.Context) error {
	_, err := d.layouts.Get(ctx)
	return err
}

// MountPath returns the normalized mount path.
func (d *Dashboard) MountPath() string {
	return d.mount
}

func (d *Dashboard) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	p := r.URL.Path
	if p == d.mount {
		middleware.SetRoute(r.Context(), routeRedirect)
		target := d.mount + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	if !strings.HasPrefix(p, d.mount+"/") {
		next.ServeHTTP(w, r)
		return
	}

	c := &requestCtx{
		w:      w,
		r:      r,
		url:    strings.TrimPrefix(p, d.mount),
		query:  r.URL.Query(),
		isRoot: d.config.IsRoot(r),
		d:      d,
		next:   next,
	}
	for _, rt := range d.routes {
		if rt.match(c) {
			c.setRoute(rt.name)
			rt.serve(c)
			return
		}
	}
}
