package nav

import (
	"net/url"
	"strings"
)

// Tab is one location filter button.
type Tab struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

var locationTabs = []struct{ key, label string }{
	{"all", "All"},
	{"freezer", "Freezer"},
	{"fridge", "Fridge"},
	{"pantry", "Pantry"},
	{"kitchen", "Kitchen Pantry"},
	{"basement", "Basement Storage"},
}

// BuildLocationTabs links each location to basePath, keeping the subcategory.
func BuildLocationTabs(basePath, activeLocation, activeSubcategory string) []Tab {
	active := strings.ToLower(strings.TrimSpace(activeLocation))
	if active == "" {
		active = "all"
	}
	tabs := make([]Tab, 0, len(locationTabs))
	for _, t := range locationTabs {
		tabs = append(tabs, Tab{
			Key:    t.key,
			Label:  t.label,
			Href:   FilterHref(basePath, t.key, activeSubcategory),
			Active: t.key == active,
		})
	}
	return tabs
}

// FilterHref builds a filter link; "all" selections are left out of the query.
func FilterHref(basePath, location, subcategory string) string {
	q := url.Values{}
	if v := strings.TrimSpace(location); v != "" && !strings.EqualFold(v, "all") {
		q.Set("location", v)
	}
	if v := strings.TrimSpace(subcategory); v != "" && !strings.EqualFold(v, "all") {
		q.Set("subcategory", v)
	}
	if len(q) == 0 {
		return basePath
	}
	return basePath + "?" + q.Encode()
}
