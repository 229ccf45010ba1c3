package page

import (
	"strings"

	"github.com/deployd-go/dashboard/pkg/resource"
)

// Page names with special meaning.
const (
	PageIndex  = "index"
	PageConfig = "config"
	PageEvents = "events"
)

// Options is the result of resolving a URL.
type Options struct {
	ResourceID     string   `json:"resourceId"`
	ResourceType   string   `json:"resourceType"`
	Events         []string `json:"events,omitempty"`
	Scripts        []string `json:"scripts"`
	CSS            string   `json:"css,omitempty"`
	BodyHTML       string   `json:"bodyHtml,omitempty"`
	Page           string   `json:"page"`
	BasicDashboard any      `json:"basicDashboard,omitempty"`
}

// Empty reports whether no resource was resolved.
func (o *Options) Empty() bool {
	return o == nil || o.ResourceID == ""
}

// NormalizePage picks the page name for a resource: the URL segment when
// present, else the first declared dashboard page, else "index". The name
// "config" is an alias of "index".
func NormalizePage(segment string, d *resource.Dashboard) string {
	page := segment
	if page == "" && d != nil && len(d.Pages) > 0 {
		page = d.Pages[0]
	}
	if page == "" {
		page = PageIndex
	}
	if page == PageConfig {
		page = PageIndex
	}
	return page
}

// CustomAssetURL links a file of a resource type's dashboard directory.
// rel must start with "/".
func CustomAssetURL(typeID, rel string) string {
	return "/__custom/" + strings.ToLower(typeID) + rel
}
