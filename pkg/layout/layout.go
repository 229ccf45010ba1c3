package layout

import (
	"encoding/json"
	"html/template"
	"io"
)

// Delimiters used by layout templates.
const (
	LeftDelim  = "<{"
	RightDelim = "}>"
)

// Data is passed to the layout when rendering a page.
type Data struct {
	// Context describes the page (name, resource, environment).
	Context any

	// Render holds the page body.
	Render Render

	// Scripts are script URLs, in order.
	Scripts []string

	// CSS is an optional stylesheet URL.
	CSS string
}

// Render holds pre-rendered page fragments.
type Render struct {
	BodyHTML template.HTML
}

// Layout is a compiled layout template. It is immutable and safe for
// concurrent use.
type Layout struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	// json embeds a value in a <script> block.
	"json": func(v any) (template.JS, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(data), nil
	},
}

// Compile parses text as a layout named name.
func Compile(name, text string) (*Layout, error) {
	tmpl, err := template.New(name).
		Delims(LeftDelim, RightDelim).
		Funcs(funcs).
		Parse(text)
	if err != nil {
		return nil, err
	}
	return &Layout{tmpl: tmpl}, nil
}

// Execute renders the layout. Callers should render into a buffer so a
// failure does not leave a partial response.
func (l *Layout) Execute(w io.Writer, data Data) error {
	return l.tmpl.Execute(w, data)
}
