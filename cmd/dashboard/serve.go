package main

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deployd-go/dashboard"
	"github.com/deployd-go/dashboard/internal/config"
	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/deployd-go/dashboard/pkg/assets"
	"github.com/deployd-go/dashboard/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	rootKeyHeader = "X-Dashboard-Root-Key"
	rootKeyCookie = "DashboardRootKey"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
		env  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		Long: `Serve the dashboard for the resources in the project config.

Outside the development environment, only callers presenting the root
key (header X-Dashboard-Root-Key or cookie DashboardRootKey) see the
console; everyone else gets the login page.

Examples:
  dashboard serve
  dashboard serve --port=8080 --env=production`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if env != "" {
				cfg.Server.Env = env
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment name (default from config)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	handler, d, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Warm(ctx); err != nil {
		logger.Warn("layout warm-up failed", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	success("Dashboard for %s on http://%s%s/", cfg.Name, cfg.Addr(), d.MountPath())
	info("env: %s, resources: %d", cfg.Server.Env, len(cfg.Resources))

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("E151").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer builds the outer router with the dashboard mounted on it.
func newServer(cfg *config.Config, logger *slog.Logger) (http.Handler, *dashboard.Dashboard, error) {
	var resolver assets.Resolver
	if p := cfg.ManifestPath(); p != "" {
		m, err := assets.Load(p)
		if err != nil {
			return nil, nil, errors.Newf(errors.CategoryConfig, "loading asset manifest %s: %v", p, err)
		}
		resolver = assets.NewResolver(m, "/")
	}

	d := dashboard.New(dashboard.Config{
		MountPath: cfg.Server.Mount,
		Env:       cfg.Server.Env,
		AppName:   cfg.Name,
		Registry:  cfg.Registry(),
		Assets:    resolver,
		Static: dashboard.StaticConfig{
			CacheControl: dashboard.ParseCacheControl(cfg.Static.CacheControl),
			Headers:      cfg.Static.Headers,
		},
		Logger: logger,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	if cfg.Tracing.Enabled {
		r.Use(middleware.OpenTelemetry(middleware.WithTracerName("dashboard")))
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Prometheus())
	}
	r.Use(rootKey(cfg.RootKey()))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Mount(d.MountPath(), d.Handler(http.NotFoundHandler()))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, d.MountPath()+"/", http.StatusFound)
	})

	return r, d, nil
}

// rootKey marks requests presenting key as trusted. An empty key trusts
// nobody.
func rootKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" && subtle.ConstantTimeCompare([]byte(presentedKey(r)), []byte(key)) == 1 {
				r = r.WithContext(dashboard.WithRoot(r.Context(), true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func presentedKey(r *http.Request) string {
	if v := r.Header.Get(rootKeyHeader); v != "" {
		return v
	}
	c, err := r.Cookie(rootKeyCookie)
	if err != nil {
		return ""
	}
	v, err := url.PathUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return v
}
