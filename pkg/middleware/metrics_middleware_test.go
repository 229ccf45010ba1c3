package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheusMiddleware_LabelsByRouteAndStatus(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r.Context(), "resource-page")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	serve(h, "/dashboard/users")

	m := globalMetrics
	if m == nil {
		t.Fatal("expected metrics to be initialized")
	}
	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("resource-page", "500")); got != 1 {
		t.Fatalf("requests_total(resource-page,500)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("resource-page")); got != 1 {
		t.Fatalf("request_duration_seconds count=%v, want 1", got)
	}
}

func TestPrometheusMiddleware_UnlabelledRequest(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	h := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	serve(h, "/elsewhere")

	if got := metricCounterValue(t, globalMetrics.requestsTotal.WithLabelValues(Unmatched, "200")); got != 1 {
		t.Fatalf("requests_total(unmatched,200)=%v, want 1", got)
	}
}

func TestPrometheusMiddleware_SharesRouteWithOuterMiddleware(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r.Context(), "static")
	})
	outer := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			seen = Route(r.Context())
		})
	}
	h := OpenTelemetry()(outer(Prometheus(WithRegistry(reg))(inner)))
	serve(h, "/dashboard/__custom/x.js")

	// Prometheus reuses the holder installed by OpenTelemetry, so the
	// label set deep inside is visible to the outer handler.
	if seen != "static" {
		t.Fatalf("Route() = %q, want static", seen)
	}
}

func TestMetricsRecordFunctions_WithInitializedMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(WithRegistry(reg))
	m := globalMetrics

	RecordLayoutCompile()
	RecordFallthrough()
	RecordFallthrough()
	RecordError("resource-page", errors.New("E110"))
	RecordError("deployments", stderrors.New("boom"))
	RecordError("deployments", nil)

	if got := metricCounterValue(t, m.layoutCompiles); got != 1 {
		t.Fatalf("layout_compiles_total=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.fallthroughs); got != 2 {
		t.Fatalf("asset_fallthrough_total=%v, want 2", got)
	}
	if got := metricCounterValue(t, m.errorsTotal.WithLabelValues("resource-page", "resolve")); got != 1 {
		t.Fatalf("errors_total(resource-page,resolve)=%v, want 1", got)
	}
	if got := metricCounterValue(t, m.errorsTotal.WithLabelValues("deployments", "internal")); got != 1 {
		t.Fatalf("errors_total(deployments,internal)=%v, want 1", got)
	}
}

func TestMetricsRecordFunctions_NoopWithoutMiddleware(t *testing.T) {
	resetGlobalMetricsForTest()

	RecordLayoutCompile()
	RecordFallthrough()
	RecordError("static", stderrors.New("x"))
}
