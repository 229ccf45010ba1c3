package resource

import "strings"

// Dashboard describes a dashboard bundle on disk.
type Dashboard struct {
	// Path is the directory holding <page>.html, js/<page>.js and style.css.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Pages lists the page names in display order. The first page is the
	// default when a URL names no page.
	Pages []string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Scripts are script paths relative to Path, each starting with "/".
	Scripts []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
}

// Resource is a registered resource instance.
type Resource interface {
	// Name is the lowercase unique key matched against URL segments.
	Name() string

	// TypeID identifies the resource type.
	TypeID() string

	// EventNames lists the events the resource emits.
	EventNames() []string

	// Dashboard returns the resource's dashboard bundle, or nil.
	Dashboard() *Dashboard

	// BasicDashboard returns the configuration for the generic editor,
	// or nil when the resource has none.
	BasicDashboard() any
}

// ResourceType is an entry in the resource type table.
type ResourceType interface {
	ID() string

	// Dashboard returns the type-wide bundle used to serve shared assets,
	// or nil.
	Dashboard() *Dashboard
}

// Registry exposes the host server's resources and resource types.
// Implementations must be safe for concurrent reads.
type Registry interface {
	Resources() []Resource
	ResourceTypes() map[string]ResourceType
}

// Descriptor is a plain Resource.
type Descriptor struct {
	ResourceName string
	Type         string
	Events       []string
	Bundle       *Dashboard
	Basic        any
}

var _ Resource = (*Descriptor)(nil)

func (d *Descriptor) Name() string          { return d.ResourceName }
func (d *Descriptor) TypeID() string        { return d.Type }
func (d *Descriptor) EventNames() []string  { return d.Events }
func (d *Descriptor) Dashboard() *Dashboard { return d.Bundle }

func (d *Descriptor) BasicDashboard() any {
	// A nil map stored in an interface is still "no config".
	if m, ok := d.Basic.(map[string]any); ok && m == nil {
		return nil
	}
	return d.Basic
}

// TypeDescriptor is a plain ResourceType.
type TypeDescriptor struct {
	TypeID string
	Bundle *Dashboard
}

var _ ResourceType = (*TypeDescriptor)(nil)

func (t *TypeDescriptor) ID() string            { return t.TypeID }
func (t *TypeDescriptor) Dashboard() *Dashboard { return t.Bundle }

// Find returns the resource whose name equals id lowercased.
func Find(reg Registry, id string) (Resource, bool) {
	if reg == nil {
		return nil, false
	}
	name := strings.ToLower(id)
	for _, r := range reg.Resources() {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// FindType returns the resource type whose id, lowercased, equals key.
// key is expected to already be lowercase, as it appears in URLs.
func FindType(reg Registry, key string) (ResourceType, bool) {
	if reg == nil {
		return nil, false
	}
	for id, t := range reg.ResourceTypes() {
		if strings.ToLower(id) == key {
			return t, true
		}
	}
	return nil, false
}
