package resource

// StaticRegistry is an immutable Registry.
type StaticRegistry struct {
	resources []Resource
	types     map[string]ResourceType
}

var _ Registry = (*StaticRegistry)(nil)

// NewStaticRegistry builds a registry from resources and types. Types are
// keyed by their ID.
func NewStaticRegistry(resources []Resource, types []ResourceType) *StaticRegistry {
	reg := &StaticRegistry{
		resources: append([]Resource(nil), resources...),
		types:     make(map[string]ResourceType, len(types)),
	}
	for _, t := range types {
		reg.types[t.ID()] = t
	}
	return reg
}

// Resources returns the registered resources in registration order.
func (r *StaticRegistry) Resources() []Resource {
	return r.resources
}

// ResourceTypes returns the type table.
func (r *StaticRegistry) ResourceTypes() map[string]ResourceType {
	return r.types
}
