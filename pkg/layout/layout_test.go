package layout

import (
	"bytes"
	"strings"
	"testing"
)

const testLayout = `<html><head><title><{ .Context.Page }></title>` +
	`<{ if .CSS }><link rel="stylesheet" href="<{ .CSS }>"><{ end }></head>` +
	`<body><{ .Render.BodyHTML }>` +
	`<{ range .Scripts }><script src="<{ . }>"></script><{ end }></body></html>`

type pageContext struct {
	Page string
}

func TestCompileAndExecute(t *testing.T) {
	l, err := Compile("index.tmpl", testLayout)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var buf bytes.Buffer
	err = l.Execute(&buf, Data{
		Context: pageContext{Page: "config"},
		Render:  Render{BodyHTML: `<div id="editor">{{ item.name }}</div>`},
		Scripts: []string{"/js/default.js", "/__custom/collection/js/index.js"},
		CSS:     "/__custom/collection/style.css",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<title>config</title>",
		`<link rel="stylesheet" href="/__custom/collection/style.css">`,
		`<div id="editor">{{ item.name }}</div>`,
		`<script src="/js/default.js"></script>`,
		`<script src="/__custom/collection/js/index.js"></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestCompile_IgnoresDefaultDelimiters(t *testing.T) {
	l, err := Compile("index.tmpl", `<p>{{ .NotEvaluated }}</p><{ .CSS }>`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var buf bytes.Buffer
	if err := l.Execute(&buf, Data{CSS: "x.css"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := buf.String(); got != "<p>{{ .NotEvaluated }}</p>x.css" {
		t.Errorf("output = %q", got)
	}
}

func TestCompile_ParseError(t *testing.T) {
	if _, err := Compile("index.tmpl", `<{ if .CSS }>unterminated`); err == nil {
		t.Fatal("Compile() should fail on an unterminated action")
	}
}

func TestExecute_Error(t *testing.T) {
	l, err := Compile("index.tmpl", `<{ .Context.Missing }>`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	var buf bytes.Buffer
	if err := l.Execute(&buf, Data{Context: pageContext{}}); err == nil {
		t.Fatal("Execute() should fail on a missing field")
	}
}

func TestJSONFunc(t *testing.T) {
	l, err := Compile("index.tmpl", `<script>var cfg = <{ json .Context }>;</script>`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	var buf bytes.Buffer
	if err := l.Execute(&buf, Data{Context: map[string]any{"events": []string{"get"}}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := buf.String(); got != `<script>var cfg = {"events":["get"]};</script>` {
		t.Errorf("output = %q", got)
	}
}
