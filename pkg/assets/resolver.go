package assets

import "strings"

// Resolver maps a dashboard asset path to the URL linked from pages.
type Resolver interface {
	// Asset resolves a source path such as "/js/basic.js".
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that looks sources up in m and prepends
// prefix. Manifest keys carry no leading slash.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(strings.TrimPrefix(source, "/"))
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that leaves paths unchanged
// apart from the prefix. It is the default when no manifest exists.
//
//	assets.NewPassthroughResolver("/").Asset("/js/basic.js") // "/js/basic.js"
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + strings.TrimPrefix(source, "/")
}
