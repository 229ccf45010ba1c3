package templates

import (
	"embed"
	"io/fs"
)

// Layout is the layout file name within Pages().
const Layout = "index.tmpl"

// AuthGate is the page served to untrusted callers outside development.
const AuthGate = "auth.html"

//go:embed pages www
var builtin embed.FS

// Pages returns the built-in template directory.
func Pages() fs.FS {
	return sub("pages")
}

// Static returns the built-in static asset tree.
func Static() fs.FS {
	return sub("www")
}

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(builtin, dir)
	if err != nil {
		// dir is a compile-time constant embedded above.
		panic(err)
	}
	return fsys
}
