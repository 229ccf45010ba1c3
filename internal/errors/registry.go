package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E100-E129)
	// ============================================

	"E101": {
		Category: CategoryRender,
		Message:  "Layout read failed",
		Detail:   "The layout template could not be read from the template directory. The next request will retry the read.",
	},
	"E102": {
		Category: CategoryRender,
		Message:  "Layout compile failed",
		Detail:   "The layout template could not be parsed. Layout expressions use the <{ and }> delimiters.",
	},
	"E120": {
		Category: CategoryRender,
		Message:  "Template execution failed",
		Detail:   "The compiled layout raised an error while rendering the page.",
	},

	// ============================================
	// Resolve Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryResolve,
		Message:  "Page body read failed",
		Detail:   "A page supplied by a resource type dashboard exists but could not be read.",
	},
	"E111": {
		Category: CategoryResolve,
		Message:  "Built-in template read failed",
		Detail:   "One of the built-in dashboard pages (basic, default, events, deployments, modules) could not be read.",
	},

	// ============================================
	// Config Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryConfig,
		Message:  "Config parse failed",
		Detail:   "The dashboard configuration file is not valid JSON or YAML.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Config not found",
		Detail:   "No dashboard.json or dashboard.yaml was found.",
	},
	"E142": {
		Category: CategoryConfig,
		Message:  "Invalid config",
		Detail:   "The dashboard configuration contains an invalid value.",
	},
	"E143": {
		Category: CategoryConfig,
		Message:  "Config write failed",
		Detail:   "The dashboard configuration could not be written.",
	},

	// ============================================
	// CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Unknown resource",
		Detail:   "The URL does not name a resource in the configured registry.",
	},
	"E151": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"E152": {
		Category: CategoryCLI,
		Message:  "Scaffold failed",
		Detail:   "The dashboard bundle could not be generated.",
	},
}

