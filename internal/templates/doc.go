// Package templates holds the dashboard's built-in files and the
// scaffolds for custom resource type dashboards.
//
// # Built-in files
//
// Pages returns the template directory: the layout (index.tmpl) and the
// page bodies composed into it (deployments, modules, basic, default,
// events) plus the standalone auth gate. Static returns the tree served
// verbatim for dotted request paths (js/, css/).
//
// # Scaffolds
//
// A resource type can ship its own dashboard directory. Create writes a
// starting point for one:
//
//	tmpl, err := templates.Get("bundle")
//	if err != nil {
//	    return err
//	}
//	err = tmpl.Create("resources/inventory/dashboard", templates.Config{
//	    TypeID: "Inventory",
//	    Pages:  []string{"index", "stats"},
//	})
//
// Scaffold files are text/template sources with these variables:
//
//	{{.TypeID}}     - resource type id as registered
//	{{.TypeKey}}    - lowercased type id used in /__custom URLs
//	{{.Pages}}      - page names, the first is the default page
package templates
