package routes

import "net/http"

// Register adds all routes from the given groups to the mux and returns
// the ServeMux patterns in registration order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, group := range groups {
		patterns = register(mux, "", group, patterns)
	}
	return patterns
}

func register(mux *http.ServeMux, parent string, group Group, patterns []string) []string {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
		patterns = append(patterns, pattern)
	}
	for _, child := range group.Children {
		patterns = register(mux, prefix, child, patterns)
	}
	return patterns
}
