package dashboard

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/deployd-go/dashboard/internal/templates"
	"github.com/deployd-go/dashboard/pkg/middleware"
	"github.com/deployd-go/dashboard/pkg/resource"
)

const customPrefix = "__custom"

// =============================================================================
// Resource Type Assets
// =============================================================================

// serveCustomAsset serves /__custom/<type>/<rest> from the type's
// dashboard directory. Unknown types and types without a directory are
// passed to the next handler.
func (d *Dashboard) serveCustomAsset(c *requestCtx) {
	segments := splitPath(c.url)
	if len(segments) < 3 || segments[0] != customPrefix {
		d.passThrough(c)
		return
	}

	t, ok := resource.FindType(d.config.Registry, strings.ToLower(segments[1]))
	if !ok || t.Dashboard() == nil || t.Dashboard().Path == "" {
		d.passThrough(c)
		return
	}

	if !allowedMethod(c) {
		return
	}
	rel, ok := relPath(strings.Join(segments[2:], "/"))
	if !ok {
		http.NotFound(c.w, c.r)
		return
	}

	name := filepath.Join(t.Dashboard().Path, filepath.FromSlash(rel))
	f, err := d.config.Files.Open(name)
	if err != nil {
		http.NotFound(c.w, c.r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(c.w, c.r)
		return
	}

	d.applyHeaders(c.w, rel)
	http.ServeContent(c.w, c.r, rel, info.ModTime(), f)
}

func (d *Dashboard) passThrough(c *requestCtx) {
	middleware.RecordFallthrough()
	d.logger.Debug("custom asset not handled", "path", c.url)
	c.next.ServeHTTP(c.w, c.r)
}

// =============================================================================
// Built-in Assets
// =============================================================================

// serveStatic serves a dotted path from the built-in static tree.
func (d *Dashboard) serveStatic(c *requestCtx) {
	if !allowedMethod(c) {
		return
	}
	rel, ok := relPath(strings.TrimPrefix(c.url, "/"))
	if !ok {
		http.NotFound(c.w, c.r)
		return
	}
	if !d.serveFS(c, d.config.Static.FS, rel, true) {
		http.NotFound(c.w, c.r)
	}
}

// serveAuthGate serves the login page in place of any dynamic page.
func (d *Dashboard) serveAuthGate(c *requestCtx) {
	c.w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	c.w.Header().Set("Cache-Control", "no-store")
	if !d.serveFS(c, d.config.Templates, templates.AuthGate, false) {
		http.NotFound(c.w, c.r)
	}
}

// serveFS streams name from fsys and reports whether it was found.
func (d *Dashboard) serveFS(c *requestCtx, fsys fs.FS, name string, cache bool) bool {
	f, err := fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			return false
		}
		content = bytes.NewReader(data)
	}

	if cache {
		d.applyHeaders(c.w, name)
	}
	http.ServeContent(c.w, c.r, name, info.ModTime(), content)
	return true
}

// allowedMethod rejects anything but GET and HEAD.
func allowedMethod(c *requestCtx) bool {
	if c.r.Method == http.MethodGet || c.r.Method == http.MethodHead {
		return true
	}
	c.w.Header().Set("Allow", "GET, HEAD")
	http.Error(c.w, "Method Not Allowed", http.StatusMethodNotAllowed)
	return false
}

// relPath returns a sanitized relative path for an asset request. It
// rejects traversal and absolute-path tricks so a request cannot escape
// the directory it is served from.
func relPath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}

	// Reject platform-dependent separators.
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// A leading "/" after prefix stripping is an absolute-path attempt
	// (e.g. "/dashboard//etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning so traversal cannot be cleaned
	// away.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// applyHeaders sets cache control and custom headers for an asset.
func (d *Dashboard) applyHeaders(w http.ResponseWriter, filePath string) {
	switch d.config.Static.CacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		if isFingerprinted(filePath) {
			// Fingerprinted files are immutable.
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}

	for key, value := range d.config.Static.Headers {
		w.Header().Set(key, value)
	}
}

// isFingerprinted checks if a file path carries a content hash, e.g.
// "basic.a1b2c3d4.js".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}

	// Hashes are 8+ hex characters before the extension.
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}

	return true
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
