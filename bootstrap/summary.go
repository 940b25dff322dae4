package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/asrgateway/component"
	"github.com/kbukum/asrgateway/logger"
)

// SummaryLines renders the startup summary: one line per described
// component followed by the registered routes.
func SummaryLines(ctx context.Context, reg *component.Registry, name, version string, took time.Duration) []string {
	lines := []string{fmt.Sprintf("%s %s started in %s", name, version, took.Round(time.Millisecond))}

	health := make(map[string]component.Health)
	for _, h := range reg.HealthAll(ctx) {
		health[h.Name] = h
	}

	var routes []component.Route
	for _, c := range reg.All() {
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		display := desc.Name
		if display == "" {
			display = c.Name()
		}
		status := "?"
		if h, ok := health[c.Name()]; ok {
			status = string(h.Status)
		}
		line := fmt.Sprintf("  %-12s %-14s %-9s %s", desc.Type, display, status, desc.Details)
		lines = append(lines, strings.TrimRight(line, " "))
	}

	for _, r := range routes {
		lines = append(lines, fmt.Sprintf("  %-7s %s", r.Method, r.Path))
	}
	return lines
}

func (a *App[C]) printSummary(ctx context.Context, took time.Duration) {
	for _, line := range SummaryLines(ctx, a.Components, a.Name, a.Version, took) {
		a.Logger.Info(line)
	}
	a.Logger.Info("application ready", logger.Fields("startup_ms", took.Milliseconds()))
}
