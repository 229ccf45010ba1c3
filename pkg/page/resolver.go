package page

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/deployd-go/dashboard/pkg/assets"
	"github.com/deployd-go/dashboard/pkg/resource"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/deployd-go/dashboard/pkg/page"

// Built-in page bodies, read from Config.Templates.
const (
	basicTemplate   = "basic.html"
	defaultTemplate = "default.html"
	eventsTemplate  = "events.html"
)

// Built-in editor scripts.
const (
	basicScript   = "/js/basic.js"
	defaultScript = "/js/default.js"
)

// Config configures a Resolver.
type Config struct {
	// Registry lists the resources that can be edited.
	Registry resource.Registry

	// Files reads plugin dashboard directories. Default: assets.OS{}.
	Files assets.FileSystem

	// Templates holds the built-in page bodies. Required.
	Templates fs.FS

	// Assets maps built-in script paths to linked URLs.
	// Default: passthrough with prefix "/".
	Assets assets.Resolver

	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger
}

// Resolver resolves dashboard URLs. It is safe for concurrent use.
type Resolver struct {
	registry  resource.Registry
	files     assets.FileSystem
	templates fs.FS
	assets    assets.Resolver
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config) *Resolver {
	if cfg.Files == nil {
		cfg.Files = assets.OS{}
	}
	if cfg.Assets == nil {
		cfg.Assets = assets.NewPassthroughResolver("/")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Resolver{
		registry:  cfg.Registry,
		files:     cfg.Files,
		templates: cfg.Templates,
		assets:    cfg.Assets,
		logger:    cfg.Logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// Load resolves a mount-relative URL. An unknown or missing resource
// yields empty Options and no error.
func (r *Resolver) Load(ctx context.Context, url string) (*Options, error) {
	parts := splitPath(url)
	if len(parts) == 0 {
		return &Options{}, nil
	}

	res, ok := resource.Find(r.registry, parts[0])
	if !ok {
		return &Options{}, nil
	}

	var segment string
	if len(parts) > 1 {
		segment = parts[1]
	}
	bundle := res.Dashboard()
	page := NormalizePage(segment, bundle)

	_, span := r.tracer.Start(ctx, "page.resolve", trace.WithAttributes(
		attribute.String("dashboard.resource", res.Name()),
		attribute.String("dashboard.resource_type", res.TypeID()),
		attribute.String("dashboard.page", page),
	))
	defer span.End()

	opts := &Options{
		ResourceID:   parts[0],
		ResourceType: res.TypeID(),
		Events:       res.EventNames(),
		Scripts:      []string{},
	}

	var err error
	if pagePath, ok := r.advancedPage(bundle, page); ok {
		span.SetAttributes(attribute.String("dashboard.branch", "advanced"))
		err = r.loadAdvanced(opts, res, pagePath, page)
	} else {
		span.SetAttributes(attribute.String("dashboard.branch", "basic"))
		err = r.loadBasic(opts, res, page)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return nil, err
	}

	r.logger.Debug("resolved resource page",
		"resource", opts.ResourceID,
		"type", opts.ResourceType,
		"page", opts.Page)

	return opts, nil
}

// advancedPage returns <bundle.Path>/<page>.html when it exists.
func (r *Resolver) advancedPage(bundle *resource.Dashboard, page string) (string, bool) {
	if bundle == nil || bundle.Path == "" {
		return "", false
	}
	pagePath := filepath.Join(bundle.Path, page+".html")
	return pagePath, assets.Exists(r.files, pagePath)
}

// loadAdvanced reads the plugin page and discovers its scripts and
// stylesheet concurrently.
func (r *Resolver) loadAdvanced(opts *Options, res resource.Resource, pagePath, page string) error {
	bundle := res.Dashboard()
	typeID := res.TypeID()

	var (
		body    string
		scripts []string
		css     string
	)

	var g errgroup.Group

	g.Go(func() error {
		b, err := assets.ReadFile(r.files, pagePath)
		if err != nil {
			return errors.New("E110").WithLocation(pagePath, 0, 0).Wrap(err)
		}
		body = b
		return nil
	})

	g.Go(func() error {
		for _, s := range bundle.Scripts {
			scripts = append(scripts, CustomAssetURL(typeID, s))
		}
		if assets.Exists(r.files, filepath.Join(bundle.Path, "js", page+".js")) {
			scripts = append(scripts, CustomAssetURL(typeID, "/js/"+page+".js"))
		}
		return nil
	})

	g.Go(func() error {
		if assets.Exists(r.files, filepath.Join(bundle.Path, "style.css")) {
			css = CustomAssetURL(typeID, "/style.css")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	opts.BodyHTML = body
	opts.Scripts = append(opts.Scripts, scripts...)
	opts.CSS = css

	if page == PageIndex {
		page = PageConfig
	}
	opts.Page = page
	return nil
}

// loadBasic fills opts from the built-in pages.
func (r *Resolver) loadBasic(opts *Options, res resource.Resource, page string) error {
	opts.Page = page

	var name string
	switch page {
	case PageIndex:
		opts.Page = PageConfig
		if basic := res.BasicDashboard(); basic != nil {
			opts.Scripts = append(opts.Scripts, r.assets.Asset(basicScript))
			opts.BasicDashboard = basic
			name = basicTemplate
		} else {
			opts.Scripts = append(opts.Scripts, r.assets.Asset(defaultScript))
			name = defaultTemplate
		}
	case PageEvents:
		name = eventsTemplate
	default:
		return nil
	}

	body, err := fs.ReadFile(r.templates, name)
	if err != nil {
		return errors.New("E111").WithLocation(name, 0, 0).Wrap(err)
	}
	opts.BodyHTML = string(body)
	return nil
}

func splitPath(url string) []string {
	var parts []string
	for _, p := range strings.Split(url, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
