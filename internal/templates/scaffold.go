package templates

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/deployd-go/dashboard/internal/errors"
)

// Config contains scaffold variables.
type Config struct {
	// TypeID is the resource type the bundle belongs to.
	TypeID string

	// Pages are the dashboard pages to generate. Default: ["index"].
	Pages []string
}

// TypeKey returns the lowercased type id.
func (c Config) TypeKey() string {
	return strings.ToLower(c.TypeID)
}

// Template is a dashboard bundle scaffold.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files maps relative paths to file contents. A path containing
	// "{{page}}" is written once per configured page.
	Files map[string]string
}

const pageToken = "{{page}}"

var scaffolds = map[string]*Template{
	"minimal": minimalTemplate(),
	"bundle":  bundleTemplate(),
}

// Get returns a scaffold by name.
func Get(name string) (*Template, error) {
	tmpl, ok := scaffolds[name]
	if !ok {
		return nil, errors.New("E152").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all scaffold names, sorted.
func List() []string {
	names := make([]string, 0, len(scaffolds))
	for name := range scaffolds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create writes the scaffold into dir. Existing files are left alone and
// reported as an error.
func (t *Template) Create(dir string, cfg Config) error {
	if len(cfg.Pages) == 0 {
		cfg.Pages = []string{"index"}
	}

	for relPath, content := range t.Files {
		targets := []string{relPath}
		if strings.Contains(relPath, pageToken) {
			targets = targets[:0]
			for _, p := range cfg.Pages {
				targets = append(targets, strings.ReplaceAll(relPath, pageToken, p))
			}
		}

		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		for _, target := range targets {
			page := strings.TrimSuffix(path.Base(target), path.Ext(target))

			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, pageData{Config: cfg, Page: page}); err != nil {
				return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
			}

			fullPath := filepath.Join(dir, filepath.FromSlash(target))
			if _, err := os.Stat(fullPath); err == nil {
				return errors.New("E152").
					WithDetail(fullPath + " already exists").
					WithSuggestion("Remove the file or pick another directory")
			}
			if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				return errors.New("E152").Wrap(err)
			}
			if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
				return errors.New("E152").Wrap(err)
			}
		}
	}

	return nil
}

type pageData struct {
	Config
	Page string
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One HTML body per page",
		Files: map[string]string{
			pageToken + ".html": `<section class="{{.TypeKey}} {{.Page}}">
  <h1>{{.TypeID}}: {{.Page}}</h1>
</section>
`,
		},
	}
}

func bundleTemplate() *Template {
	return &Template{
		Name:        "bundle",
		Description: "HTML body and script per page, plus a shared stylesheet",
		Files: map[string]string{
			pageToken + ".html": `<section class="{{.TypeKey}} {{.Page}}">
  <h1 id="resource-title"></h1>
  <div id="{{.TypeKey}}-{{.Page}}"></div>
</section>
`,
			"js/" + pageToken + ".js": `(function () {
  var d = window.dashboard;
  var root = document.getElementById('{{.TypeKey}}-{{.Page}}');

  d.get('/__resources/' + d.context.resourceId).then(function (config) {
    root.textContent = JSON.stringify(config, null, 2);
  });
})();
`,
			"style.css": `.{{.TypeKey}} h1 {
  margin-top: 0;
}
`,
		},
	}
}
