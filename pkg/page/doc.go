// Package page resolves a dashboard URL to the pieces of a page: the body
// HTML, the scripts and stylesheet to link, and the labels the layout
// shows.
//
// A URL names a resource and optionally a page of it:
//
//	/todos          resource "todos", its first declared page or "index"
//	/todos/events   resource "todos", page "events"
//	/todos/config   same as /todos/index
//
// When the resource's dashboard directory holds <page>.html, the page is
// an advanced dashboard: the plugin's HTML, its declared scripts, an
// optional js/<page>.js and an optional style.css, all linked under
// /__custom/<type>/. Otherwise a built-in page is used: the generic
// editor for "index" and the event editor for "events". Any other page
// resolves to an empty body.
package page
