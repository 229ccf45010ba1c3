package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/deployd-go/dashboard/pkg/middleware"
	"github.com/deployd-go/dashboard/pkg/resource"
	"github.com/go-chi/chi/v5"
)

const testLayout = `page=<{ .Context.Page }>;module=<{ .Context.Module }>;` +
	`body=<{ .Render.BodyHTML }>;scripts=<{ range .Scripts }><{ . }> <{ end }>;` +
	`css=<{ .CSS }>;env=<{ .Context.Env }>;app=<{ .Context.AppName }>`

func testTemplates(layoutText string) fstest.MapFS {
	return fstest.MapFS{
		"index.tmpl":       {Data: []byte(layoutText)},
		"auth.html":        {Data: []byte("<h1>AUTH GATE</h1>")},
		"deployments.html": {Data: []byte("<p>deployments</p>")},
		"modules.html":     {Data: []byte("<p>modules</p>")},
		"basic.html":       {Data: []byte("<p>basic</p>")},
		"default.html":     {Data: []byte("<p>default</p>")},
		"events.html":      {Data: []byte("<p>events</p>")},
	}
}

func testStatic() fstest.MapFS {
	return fstest.MapFS{
		"js/app.js":            {Data: []byte("console.log('app')")},
		"js/basic.0123abcd.js": {Data: []byte("basic")},
		"css/dashboard.css":    {Data: []byte("body{}")},
		"img/logo.png":         {Data: []byte("png")},
		"js/nested/deep.js":    {Data: []byte("deep")},
	}
}

// writeBundle creates a resource type dashboard directory.
func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type fixture struct {
	d        *Dashboard
	compiles *atomic.Int32
	bundle   string
}

func newFixture(t *testing.T, modify func(*Config)) *fixture {
	t.Helper()

	bundle := writeBundle(t, map[string]string{
		"stats.html":    "<p>stats page</p>",
		"js/stats.js":   "stats()",
		"js/shared.js":  "shared()",
		"style.css":     ".stats{}",
		"img/chart.svg": "<svg/>",
	})
	broken := t.TempDir()
	if err := os.Mkdir(filepath.Join(broken, "index.html"), 0755); err != nil {
		t.Fatal(err)
	}

	reg := resource.NewStaticRegistry(
		[]resource.Resource{
			&resource.Descriptor{
				ResourceName: "users",
				Type:         "Collection",
				Events:       []string{"get", "post"},
				Bundle:       &resource.Dashboard{Path: bundle, Pages: []string{"stats"}, Scripts: []string{"/js/shared.js"}},
			},
			&resource.Descriptor{
				ResourceName: "settings",
				Type:         "Config",
				Basic:        map[string]any{"settings": []any{"title"}},
			},
			&resource.Descriptor{
				ResourceName: "broken",
				Type:         "Broken",
				Bundle:       &resource.Dashboard{Path: broken},
			},
		},
		[]resource.ResourceType{
			&resource.TypeDescriptor{TypeID: "Collection", Bundle: &resource.Dashboard{Path: bundle}},
			&resource.TypeDescriptor{TypeID: "Config"},
		},
	)

	compiles := &atomic.Int32{}
	cfg := Config{
		MountPath:       "/dashboard",
		Env:             EnvDevelopment,
		AppName:         "shop",
		Registry:        reg,
		Templates:       testTemplates(testLayout),
		Static:          StaticConfig{FS: testStatic()},
		OnLayoutCompile: func() { compiles.Add(1) },
	}
	if modify != nil {
		modify(&cfg)
	}
	return &fixture{d: New(cfg), compiles: compiles, bundle: bundle}
}

var teapot = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func (f *fixture) do(t *testing.T, method, target string, root bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if root {
		req = req.WithContext(WithRoot(req.Context(), true))
	}
	rec := httptest.NewRecorder()
	f.d.Handler(teapot).ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodGet, target, false)
}

func TestRedirectsMountRoot(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/dashboard")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard/" {
		t.Errorf("Location = %q, want /dashboard/", loc)
	}
	if f.compiles.Load() != 0 {
		t.Error("redirect should not load the layout")
	}
}

func TestTrailingSlashInMountPath(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MountPath = "/dashboard/" })

	if got := f.d.MountPath(); got != "/dashboard" {
		t.Fatalf("MountPath() = %q", got)
	}
	if rec := f.get(t, "/dashboard"); rec.Code != http.StatusFound {
		t.Errorf("status = %d, want redirect", rec.Code)
	}
}

func TestIsRootProbe(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Env = "production" })

	tests := []struct {
		root bool
		want string
	}{
		{true, `{"isRoot":true}`},
		{false, `{"isRoot":false}`},
	}
	for _, tt := range tests {
		rec := f.do(t, http.MethodGet, "/dashboard/__is-root", tt.root)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := rec.Body.String(); got != tt.want {
			t.Errorf("body = %s, want %s", got, tt.want)
		}
	}
}

func TestCustomIsRootFunc(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.IsRoot = func(r *http.Request) bool { return r.Header.Get("X-Root") == "yes" }
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/__is-root", nil)
	req.Header.Set("X-Root", "yes")
	rec := httptest.NewRecorder()
	f.d.ServeHTTP(rec, req)

	if got := rec.Body.String(); got != `{"isRoot":true}` {
		t.Errorf("body = %s", got)
	}
}

func TestAuthGate(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Env = "production" })

	for _, target := range []string{"/dashboard/", "/dashboard/users", "/dashboard/deployments-x", "/dashboard/modules"} {
		rec := f.get(t, target)
		if !strings.Contains(rec.Body.String(), "AUTH GATE") {
			t.Errorf("%s: body = %q, want auth gate", target, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=UTF-8" {
			t.Errorf("%s: Content-Type = %q", target, ct)
		}
	}

	// Trusted callers get the real page.
	rec := f.do(t, http.MethodGet, "/dashboard/users", true)
	if strings.Contains(rec.Body.String(), "AUTH GATE") {
		t.Error("trusted caller got the auth gate")
	}

	// Deployments sits above the gate.
	rec = f.get(t, "/dashboard/deployments")
	if !strings.Contains(rec.Body.String(), "page=Deployments") {
		t.Errorf("deployments body = %q", rec.Body.String())
	}
}

func TestNoAuthGateInDevelopment(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/dashboard/users")
	if strings.Contains(rec.Body.String(), "AUTH GATE") {
		t.Error("development mode served the auth gate")
	}
}

func TestDottedPathBypassesAuthGate(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Env = "production" })

	rec := f.get(t, "/dashboard/js/app.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "console.log('app')" {
		t.Errorf("body = %q", got)
	}

	// Missing dotted files are 404s, never the auth gate.
	rec = f.get(t, "/dashboard/users.json")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "AUTH GATE") {
		t.Error("dotted path fell through to the auth gate")
	}
}

func TestServeStatic(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"nested file", http.MethodGet, "/dashboard/js/nested/deep.js", http.StatusOK},
		{"head", http.MethodHead, "/dashboard/css/dashboard.css", http.StatusOK},
		{"post", http.MethodPost, "/dashboard/css/dashboard.css", http.StatusMethodNotAllowed},
		{"traversal", http.MethodGet, "/dashboard/js/../../secret.txt", http.StatusNotFound},
		{"double slash", http.MethodGet, "/dashboard//etc/passwd.txt", http.StatusNotFound},
		{"missing", http.MethodGet, "/dashboard/js/none.js", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, false)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStaticCacheHeaders(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.Static.CacheControl = CacheControlProduction
		c.Static.Headers = map[string]string{"X-Content-Type-Options": "nosniff"}
	})

	rec := f.get(t, "/dashboard/js/basic.0123abcd.js")
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Errorf("fingerprinted Cache-Control = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("custom header = %q", got)
	}

	rec = f.get(t, "/dashboard/js/app.js")
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600, must-revalidate" {
		t.Errorf("plain Cache-Control = %q", got)
	}

	dev := newFixture(t, nil)
	rec = dev.get(t, "/dashboard/js/app.js")
	if got := rec.Header().Get("Cache-Control"); got != "no-store, no-cache, must-revalidate" {
		t.Errorf("development Cache-Control = %q", got)
	}
}

func TestCustomAssets(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"script", "/dashboard/__custom/collection/js/stats.js", http.StatusOK, "stats()"},
		{"type is case-insensitive", "/dashboard/__custom/COLLECTION/style.css", http.StatusOK, ".stats{}"},
		{"nested", "/dashboard/__custom/collection/img/chart.svg", http.StatusOK, "<svg/>"},
		{"unknown type falls through", "/dashboard/__custom/proxy/x.js", http.StatusTeapot, ""},
		{"type without path falls through", "/dashboard/__custom/config/x.js", http.StatusTeapot, ""},
		{"no file part falls through", "/dashboard/__custom/collection", http.StatusTeapot, ""},
		{"missing file", "/dashboard/__custom/collection/js/none.js", http.StatusNotFound, ""},
		{"traversal", "/dashboard/__custom/collection/../../../etc/passwd", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.get(t, tt.target)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServeHTTPFallsThroughToNotFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := httptest.NewRecorder()
	f.d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/__custom/proxy/x.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestOutsideMountGoesToNext(t *testing.T) {
	f := newFixture(t, nil)

	if rec := f.get(t, "/dashboards/users"); rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want next handler", rec.Code)
	}
}

func TestDeploymentsPage(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/dashboard/deployments")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=UTF-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := "page=Deployments;module=App;body=<p>deployments</p>;scripts=/js/deployments.js ;css=;env=development;app=shop"
	if got := rec.Body.String(); got != want {
		t.Errorf("body =\n%s\nwant\n%s", got, want)
	}
}

func TestModulesPage(t *testing.T) {
	f := newFixture(t, nil)

	for _, target := range []string{"/dashboard/modules", "/dashboard/modules/mail"} {
		rec := f.get(t, target)
		want := "page=Modules;module=App;body=<p>modules</p>;scripts=/js/modules.js ;"
		if !strings.HasPrefix(rec.Body.String(), want) {
			t.Errorf("%s: body = %q", target, rec.Body.String())
		}
	}
}

func TestResourcePages(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			"blank page without resource",
			"/dashboard/",
			"page=;module=;body=;scripts=;css=;",
		},
		{
			"unknown resource",
			"/dashboard/nope/events",
			"page=;module=;body=;scripts=;css=;",
		},
		{
			"advanced first declared page",
			"/dashboard/users",
			"page=stats;module=;body=<p>stats page</p>;scripts=/__custom/collection/js/shared.js /__custom/collection/js/stats.js ;css=/__custom/collection/style.css;",
		},
		{
			"resource id is case-insensitive",
			"/dashboard/USERS/stats",
			"page=stats;module=;body=<p>stats page</p>;",
		},
		{
			"basic config page",
			"/dashboard/settings",
			"page=config;module=;body=<p>basic</p>;scripts=/js/basic.js ;css=;",
		},
		{
			"config aliases index",
			"/dashboard/settings/config",
			"page=config;module=;body=<p>basic</p>;",
		},
		{
			"events page",
			"/dashboard/settings/events",
			"page=events;module=;body=<p>events</p>;scripts=;",
		},
		{
			"unknown basic page renders empty body",
			"/dashboard/settings/other",
			"page=other;module=;body=;scripts=;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.get(t, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.HasPrefix(rec.Body.String(), tt.want) {
				t.Errorf("body =\n%s\nwant prefix\n%s", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestResolveErrorIsReported(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/dashboard/broken")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "E110") {
		t.Errorf("body exposes error code: %q", body)
	}
	if !strings.Contains(body, "index.html") {
		t.Errorf("body = %q, want the read error", body)
	}
}

func TestTemplateErrorMessage(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.Templates = testTemplates(`<{ .Context.Missing }>`)
	})

	rec := f.get(t, "/dashboard/deployments")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "can't evaluate field Missing") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "page=") {
		t.Error("partial page written")
	}
}

func TestLayoutCompiledOnceUnderConcurrency(t *testing.T) {
	f := newFixture(t, nil)
	h := f.d.Handler(teapot)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := "/dashboard/users"
			if i%2 == 0 {
				target = "/dashboard/deployments"
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("%s: status = %d", target, rec.Code)
			}
		}(i)
	}
	wg.Wait()

	if got := f.compiles.Load(); got != 1 {
		t.Errorf("layout compiled %d times, want 1", got)
	}
}

func TestWarm(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.d.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error: %v", err)
	}
	f.get(t, "/dashboard/")
	if got := f.compiles.Load(); got != 1 {
		t.Errorf("compiles = %d, want 1", got)
	}

	missing := newFixture(t, func(c *Config) { c.Templates = fstest.MapFS{} })
	err := missing.d.Warm(context.Background())
	if err == nil || !strings.Contains(err.Error(), "E101") {
		t.Errorf("Warm() error = %v, want E101", err)
	}
}

func TestMountedUnderChi(t *testing.T) {
	f := newFixture(t, nil)

	r := chi.NewRouter()
	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "api")
	})
	r.Mount("/dashboard", f.d.Handler(teapot))

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dashboard/deployments")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "page=Deployments") {
		t.Errorf("body = %q", body)
	}

	resp, err = http.Get(srv.URL + "/dashboard/__custom/proxy/app.js")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want next handler", resp.StatusCode)
	}
}

func TestDefaults(t *testing.T) {
	d := New(Config{MountPath: "/dashboard"})

	wd, _ := os.Getwd()
	if d.config.AppName != filepath.Base(wd) {
		t.Errorf("AppName = %q, want %q", d.config.AppName, filepath.Base(wd))
	}
	if d.config.Env != EnvDevelopment {
		t.Errorf("Env = %q", d.config.Env)
	}

	// The embedded layout and pages work end to end.
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/deployments", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `<script src="/dashboard/js/deployments.js"></script>`) {
		t.Errorf("body missing deployments script:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/js/basic.js", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("built-in script status = %d", rec.Code)
	}
}

func TestRouteLabels(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Env = "production" })

	var got string
	capture := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			got = middleware.Route(r.Context())
		})
	}
	h := middleware.OpenTelemetry()(capture(f.d.Handler(teapot)))

	tests := []struct {
		target string
		want   string
	}{
		{"/dashboard", routeRedirect},
		{"/dashboard/deployments", routeDeployments},
		{"/dashboard/__is-root", routeIsRoot},
		{"/dashboard/__custom/proxy/x.js", routeCustomAsset},
		{"/dashboard/js/app.js", routeStatic},
		{"/dashboard/users", routeAuthGate},
		{"/elsewhere", middleware.Unmatched},
	}
	for _, tt := range tests {
		got = ""
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.target, nil))
		if got != tt.want {
			t.Errorf("%s: route = %q, want %q", tt.target, got, tt.want)
		}
	}
}
