// Package errors provides structured, coded errors for the dashboard.
//
// Every failure the console can surface has a registered code that maps
// to a category, a short message and a longer explanation:
//   - resolve: reading plugin dashboard bundles or built-in page bodies
//   - render: loading, compiling or executing the layout template
//   - config: loading and validating dashboard.json / dashboard.yaml
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E110").
//	    WithDetail("reading /plugins/foo/index.html").
//	    Wrap(ioErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E110: Page body read failed
//	//
//	//   reading /plugins/foo/index.html
//
// Errors returned to HTTP callers are reduced to their Error() text; the
// structured form is for logs and the CLI.
package errors
