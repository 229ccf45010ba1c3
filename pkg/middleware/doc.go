// Package middleware provides observability middleware for the dashboard.
//
// Both middlewares wrap any http.Handler. The dashboard labels each
// request with the route it matched (resource-page, static, auth-gate,
// ...) through SetRoute, and the middlewares read that label after the
// handler returns.
//
// # Prometheus Metrics
//
//   - dashboard_requests_total: requests by route and status code
//   - dashboard_request_duration_seconds: request duration by route
//   - dashboard_errors_total: failed page loads by route and error category
//   - dashboard_layout_compiles_total: layout compilations
//   - dashboard_asset_fallthrough_total: /__custom requests passed on
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithNamespace("console")))
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request, named after the matched
// route, using the global tracer provider:
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("console")))
package middleware
