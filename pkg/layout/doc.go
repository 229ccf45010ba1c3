// Package layout loads, compiles and caches the dashboard's outer HTML
// shell.
//
// The layout is an html/template parsed with the delimiters <{ and }> so
// that page bodies may carry client-side template syntax using {{ }}
// without clashing. It receives a Data value:
//
//	<title><{ .Context.Page }> - <{ .Context.AppName }></title>
//	<{ if .CSS }><link rel="stylesheet" href="<{ .CSS }>"><{ end }>
//	<main><{ .Render.BodyHTML }></main>
//	<{ range .Scripts }><script src="<{ . }>"></script><{ end }>
//
// A Cache reads and compiles the layout once. Concurrent first callers
// share the single in-flight load; a failed load is not remembered, so
// the next caller retries.
package layout
