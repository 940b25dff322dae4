package server

import (
	"sort"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/asrgateway/component"
)

// systemPaths are the probe and scrape routes added by RegisterDefaultEndpoints.
var systemPaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/info":    true,
	"/version": true,
	"/metrics": true,
}

// routeTable converts Gin routes for the startup summary: API routes first,
// sorted by path then method, system routes last and marked.
func routeTable(ginRoutes gin.RoutesInfo) []component.Route {
	sorted := append(gin.RoutesInfo{}, ginRoutes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		iSys, jSys := systemPaths[sorted[i].Path], systemPaths[sorted[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return methodOrder(sorted[i].Method) < methodOrder(sorted[j].Method)
	})

	routes := make([]component.Route, 0, len(sorted))
	for _, r := range sorted {
		handler := formatHandlerName(r.Handler)
		if systemPaths[r.Path] {
			handler += " (system)"
		}
		routes = append(routes, component.Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: handler,
		})
	}
	return routes
}

// formatHandlerName shortens Gin's handler path.
//
//	"github.com/kbukum/asrgateway/gateway.(*Handler).Transcribe-fm" -> "Handler.Transcribe"
//	"github.com/kbukum/asrgateway/server/endpoint.Health.func1"     -> "health"
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}

	// Drop a lowercase package prefix.
	if pkg, rest, ok := strings.Cut(name, "."); ok && rest != "" && !strings.ContainsFunc(pkg, unicode.IsUpper) {
		name = rest
	}
	return name
}

// methodOrder returns a sort key for HTTP methods (GET first, DELETE last).
func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
