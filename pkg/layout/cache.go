package layout

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/deployd-go/dashboard/internal/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/deployd-go/dashboard/pkg/layout"

// Cache loads one layout file and keeps the compiled result for its
// lifetime.
type Cache struct {
	fsys fs.FS
	name string

	group  singleflight.Group
	layout atomic.Pointer[Layout]

	onCompile func()
}

// Option configures a Cache.
type Option func(*Cache)

// WithOnCompile registers fn to run after each successful compile.
func WithOnCompile(fn func()) Option {
	return func(c *Cache) {
		c.onCompile = fn
	}
}

// NewCache returns a Cache for the layout file name in fsys. Nothing is
// read until the first Get.
func NewCache(fsys fs.FS, name string, opts ...Option) *Cache {
	c := &Cache{fsys: fsys, name: name}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the compiled layout, loading it on first use. Every caller
// receives the same *Layout.
func (c *Cache) Get(ctx context.Context) (*Layout, error) {
	if l := c.layout.Load(); l != nil {
		return l, nil
	}

	v, err, _ := c.group.Do(c.name, func() (any, error) {
		// A caller may arrive just after the previous flight stored.
		if l := c.layout.Load(); l != nil {
			return l, nil
		}
		l, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.layout.Store(l)
		if c.onCompile != nil {
			c.onCompile()
		}
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Layout), nil
}

// Ready reports whether the layout has been compiled.
func (c *Cache) Ready() bool {
	return c.layout.Load() != nil
}

func (c *Cache) load(ctx context.Context) (*Layout, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "layout.load")
	span.SetAttributes(attribute.String("dashboard.layout", c.name))
	defer span.End()

	text, err := fs.ReadFile(c.fsys, c.name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, errors.New("E101").WithLocation(c.name, 0, 0).Wrap(err)
	}

	l, err := Compile(c.name, string(text))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile failed")
		return nil, errors.New("E102").WithLocationFromError(err).Wrap(err)
	}
	return l, nil
}
