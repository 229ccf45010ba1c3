package dashboard

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/deployd-go/dashboard/internal/templates"
	"github.com/deployd-go/dashboard/pkg/assets"
	"github.com/deployd-go/dashboard/pkg/resource"
)

// EnvDevelopment is the environment in which the auth gate is disabled.
const EnvDevelopment = "development"

// Config configures a Dashboard.
type Config struct {
	// MountPath is the path the dashboard is served under, e.g.
	// "/dashboard". A trailing slash is ignored; "" or "/" serves from
	// the root.
	MountPath string

	// Env is the host server's environment name.
	// Default: "development".
	Env string

	// AppName is shown in page titles and passed to scripts.
	// Default: base name of the working directory.
	AppName string

	// Registry exposes the resources and resource types to edit.
	Registry resource.Registry

	// Templates holds the layout and built-in page bodies.
	// Default: the embedded built-in templates.
	Templates fs.FS

	// Files reads resource type dashboard directories.
	// Default: assets.OS{}.
	Files assets.FileSystem

	// Static configures asset responses.
	Static StaticConfig

	// Assets maps built-in script paths to linked URLs, e.g. through a
	// fingerprint manifest. Default: passthrough.
	Assets assets.Resolver

	// IsRoot reports whether the caller is trusted.
	// Default: IsRoot(r.Context()), set upstream with WithRoot.
	IsRoot func(r *http.Request) bool

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// OnLayoutCompile is called after the layout is compiled.
	OnLayoutCompile func()
}

// StaticConfig configures built-in and resource type asset responses.
type StaticConfig struct {
	// FS is served verbatim for dotted request paths.
	// Default: the embedded built-in static tree.
	FS fs.FS

	// CacheControl determines caching behavior for asset responses.
	// Default: CacheControlNone.
	CacheControl CacheControlStrategy

	// Headers are custom headers to add to all asset responses.
	Headers map[string]string
}

// CacheControlStrategy determines caching behavior for asset responses.
type CacheControlStrategy int

const (
	// CacheControlNone sends "no-store". Useful in development.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction caches fingerprinted files for a year and
	// everything else for an hour.
	CacheControlProduction

	// CacheControlOff sends no Cache-Control header.
	CacheControlOff
)

// ParseCacheControl maps a config value to a strategy. Unknown values
// return CacheControlOff.
func ParseCacheControl(s string) CacheControlStrategy {
	switch strings.ToLower(s) {
	case "none":
		return CacheControlNone
	case "production":
		return CacheControlProduction
	default:
		return CacheControlOff
	}
}

func (c Config) withDefaults() Config {
	c.MountPath = strings.TrimSuffix(c.MountPath, "/")
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.AppName == "" {
		if wd, err := os.Getwd(); err == nil {
			c.AppName = filepath.Base(wd)
		}
	}
	if c.Registry == nil {
		c.Registry = resource.NewStaticRegistry(nil, nil)
	}
	if c.Templates == nil {
		c.Templates = templates.Pages()
	}
	if c.Files == nil {
		c.Files = assets.OS{}
	}
	if c.Static.FS == nil {
		c.Static.FS = templates.Static()
	}
	if c.Assets == nil {
		c.Assets = assets.NewPassthroughResolver("/")
	}
	if c.IsRoot == nil {
		c.IsRoot = func(r *http.Request) bool { return IsRoot(r.Context()) }
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
