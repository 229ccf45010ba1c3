// Package resource describes the resources and resource types the
// dashboard edits.
//
// The dashboard never runs resource business logic. It only reads the
// shape of each resource: its lowercase name, the id of its type, the
// events it emits, and an optional dashboard bundle that a resource
// type plugin ships on disk:
//
//	&resource.Descriptor{
//	    ResourceName: "todos",
//	    Type:         "Collection",
//	    Events:       []string{"get", "post"},
//	    Bundle: &resource.Dashboard{
//	        Path:    "/srv/plugins/collection/dashboard",
//	        Pages:   []string{"index", "events"},
//	        Scripts: []string{"/js/lib.js"},
//	    },
//	}
//
// A Registry exposes the resources and the resource type table of the
// host server. StaticRegistry is an immutable in-memory implementation.
package resource
