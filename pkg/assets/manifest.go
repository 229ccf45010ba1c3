// Package assets locates the files the dashboard serves and links to.
//
// Two concerns live here. FileSystem abstracts the plugin dashboard
// directories on disk so the page resolver can check for and read
// <page>.html, js/<page>.js and style.css. Manifest and Resolver map the
// dashboard's own script URLs to fingerprinted file names when a build
// step produced a manifest.json:
//
//	{
//	  "js/basic.js": "js/basic.a1b2c3d4.js",
//	  "js/default.js": "js/default.e5f6a7b8.js"
//	}
//
//	manifest, _ := assets.LoadFS(static, "manifest.json")
//	resolver := assets.NewResolver(manifest, "/")
//	resolver.Asset("js/basic.js") // "/js/basic.a1b2c3d4.js"
package assets

import (
	"encoding/json"
	"io/fs"
	"os"
	"sync"
)

// Manifest maps source asset paths to fingerprinted paths.
// It is safe for concurrent use.
type Manifest struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
	}
}

// Load reads a manifest.json file from disk.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

// LoadFS reads a manifest from fsys, typically the embedded static tree.
func LoadFS(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*Manifest, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted path for source, or source unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest contains source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
