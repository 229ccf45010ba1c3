package dashboard

import "strings"

// Route names, used as metric and span labels.
const (
	routeRedirect     = "redirect"
	routeDeployments  = "deployments"
	routeIsRoot       = "is-root"
	routeCustomAsset  = "custom-asset"
	routeStatic       = "static"
	routeAuthGate     = "auth-gate"
	routeModules      = "modules"
	routeResourcePage = "resource-page"
)

// route is one row of the dispatch table. Rows are tried in order and
// the first match serves the request.
type route struct {
	name  string
	match func(c *requestCtx) bool
	serve func(c *requestCtx)
}

func (d *Dashboard) table() []route {
	return []route{
		{
			name:  routeDeployments,
			match: func(c *requestCtx) bool { return c.url == "/deployments" },
			serve: d.renderDeployments,
		},
		{
			name:  routeIsRoot,
			match: func(c *requestCtx) bool { return c.url == "/__is-root" },
			serve: func(c *requestCtx) {
				c.done(nil, map[string]bool{"isRoot": c.isRoot})
			},
		},
		{
			name:  routeCustomAsset,
			match: func(c *requestCtx) bool { return strings.HasPrefix(c.url, "/__custom") },
			serve: d.serveCustomAsset,
		},
		{
			// Dotted paths are assets and are served before the auth gate.
			name:  routeStatic,
			match: func(c *requestCtx) bool { return strings.Contains(c.url, ".") },
			serve: d.serveStatic,
		},
		{
			name: routeAuthGate,
			match: func(c *requestCtx) bool {
				return !c.isRoot && d.config.Env != EnvDevelopment
			},
			serve: d.serveAuthGate,
		},
		{
			name:  routeModules,
			match: func(c *requestCtx) bool { return strings.HasPrefix(c.url, "/modules") },
			serve: d.renderModules,
		},
		{
			name:  routeResourcePage,
			match: func(*requestCtx) bool { return true },
			serve: d.renderResourcePage,
		},
	}
}
