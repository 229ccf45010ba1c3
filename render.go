package dashboard

import (
	"bytes"
	stderrors "errors"
	"html/template"
	"io/fs"

	"github.com/deployd-go/dashboard/internal/errors"
	"github.com/deployd-go/dashboard/pkg/layout"
	"golang.org/x/sync/errgroup"
)

// Fixed app pages.
const (
	deploymentsBody   = "deployments.html"
	deploymentsScript = "/js/deployments.js"
	modulesBody       = "modules.html"
	modulesScript     = "/js/modules.js"
	appModule         = "App"
)

// PageContext describes the rendered page to the layout. Page scripts
// read it as window.DASHBOARD.
type PageContext struct {
	// Root is the mount path, prefixed to every linked URL.
	Root    string `json:"root"`
	Env     string `json:"env"`
	AppName string `json:"appName"`

	ResourceID     string   `json:"resourceId,omitempty"`
	ResourceType   string   `json:"resourceType,omitempty"`
	Page           string   `json:"page,omitempty"`
	Module         string   `json:"module,omitempty"`
	Events         []string `json:"events,omitempty"`
	BasicDashboard any      `json:"basicDashboard,omitempty"`
}

type view struct {
	context PageContext
	body    string
	scripts []string
	css     string
}

func (d *Dashboard) pageContext() PageContext {
	return PageContext{
		Root:    d.mount,
		Env:     d.config.Env,
		AppName: d.config.AppName,
	}
}

// renderResourcePage renders the editor for the resource named by the
// URL, or a blank page when there is none.
func (d *Dashboard) renderResourcePage(c *requestCtx) {
	opts, err := d.resolver.Load(c.ctx(), c.url)
	if err != nil {
		c.done(err, nil)
		return
	}

	pc := d.pageContext()
	pc.ResourceID = opts.ResourceID
	pc.ResourceType = opts.ResourceType
	pc.Page = opts.Page
	pc.Events = opts.Events
	pc.BasicDashboard = opts.BasicDashboard

	d.render(c, view{
		context: pc,
		body:    opts.BodyHTML,
		scripts: opts.Scripts,
		css:     opts.CSS,
	})
}

func (d *Dashboard) renderDeployments(c *requestCtx) {
	d.renderAppPage(c, "Deployments", deploymentsBody, deploymentsScript)
}

func (d *Dashboard) renderModules(c *requestCtx) {
	d.renderAppPage(c, "Modules", modulesBody, modulesScript)
}

// renderAppPage renders a fixed page, reading its body while the layout
// loads.
func (d *Dashboard) renderAppPage(c *requestCtx, name, bodyFile, script string) {
	var (
		g    errgroup.Group
		l    *layout.Layout
		body []byte
	)
	g.Go(func() error {
		var err error
		l, err = d.layouts.Get(c.ctx())
		return err
	})
	g.Go(func() error {
		var err error
		body, err = fs.ReadFile(d.config.Templates, bodyFile)
		if err != nil {
			return errors.New("E111").WithLocation(bodyFile, 0, 0).Wrap(err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		c.done(err, nil)
		return
	}

	pc := d.pageContext()
	pc.Page = name
	pc.Module = appModule

	d.execute(c, l, view{
		context: pc,
		body:    string(body),
		scripts: []string{d.config.Assets.Asset(script)},
	})
}

// render waits for the layout and executes it.
func (d *Dashboard) render(c *requestCtx, v view) {
	l, err := d.layouts.Get(c.ctx())
	if err != nil {
		c.done(err, nil)
		return
	}
	d.execute(c, l, v)
}

func (d *Dashboard) execute(c *requestCtx, l *layout.Layout, v view) {
	var buf bytes.Buffer
	err := l.Execute(&buf, layout.Data{
		Context: v.context,
		Render:  layout.Render{BodyHTML: template.HTML(v.body)},
		Scripts: v.scripts,
		CSS:     v.css,
	})
	if err != nil {
		c.done(errors.New("E120").Wrap(err), nil)
		return
	}

	c.w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	_, _ = buf.WriteTo(c.w)
}

// message is the error text shown to HTTP callers: the underlying cause
// of a coded error, without code or hints.
func message(err error) string {
	var de *errors.Error
	if stderrors.As(err, &de) && de.Wrapped != nil {
		return de.Wrapped.Error()
	}
	return err.Error()
}
