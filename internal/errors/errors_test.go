package errors

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "render error",
			code:    "E101",
			wantMsg: "Layout read failed",
			wantCat: CategoryRender,
		},
		{
			name:    "resolve error",
			code:    "E110",
			wantMsg: "Page body read failed",
			wantCat: CategoryResolve,
		},
		{
			name:    "config error",
			code:    "E141",
			wantMsg: "Config not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "resource %q not found", "todos")
	if err.Message != `resource "todos" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
	if err.Error() != `resource "todos" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestError_ErrorIncludesCause(t *testing.T) {
	err := New("E110").Wrap(fs.ErrPermission)
	want := "E110: Page body read failed: permission denied"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E101") != nil {
		t.Fatal("FromError(nil) should be nil")
	}

	orig := New("E102")
	if got := FromError(orig, "E101"); got != orig {
		t.Error("FromError should return an *Error unchanged")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E101")
	if got.Code != "E101" || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestWithLocationFromError(t *testing.T) {
	err := New("E102").WithLocationFromError(stderrors.New(`template: index.tmpl:12:4: unexpected "}" in operand`))
	if err.Location == nil {
		t.Fatal("expected a location")
	}
	if err.Location.File != "index.tmpl" || err.Location.Line != 12 || err.Location.Column != 4 {
		t.Errorf("Location = %+v", err.Location)
	}
	if got := err.Location.String(); got != "index.tmpl:12:4" {
		t.Errorf("Location.String() = %q", got)
	}

	err = New("E102").WithLocationFromError(stderrors.New("no location here"))
	if err.Location != nil {
		t.Errorf("Location = %+v, want nil", err.Location)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E141").
		WithDetail("No dashboard.json found in /srv/app").
		WithSuggestion("Run 'dashboard config init'")

	out := err.Format()
	for _, want := range []string{
		"ERROR E141: Config not found",
		"No dashboard.json found in /srv/app",
		"Hint: Run 'dashboard config init'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E102").WithLocation("index.tmpl", 3, 0)
	if got := err.FormatCompact(); got != "index.tmpl:3: E102: Layout compile failed" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Print(plain) = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, New("E150"))
	if !strings.Contains(buf.String(), "ERROR E150: Unknown resource") {
		t.Errorf("Print(coded) = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
