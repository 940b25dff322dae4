package server

import (
	"context"
	"fmt"

	"github.com/kbukum/asrgateway/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component wraps Server for the component registry.
type Component struct {
	server *Server
}

// NewComponent returns a registry component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (c *Component) Start(ctx context.Context) error {
	return c.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (c *Component) Stop(ctx context.Context) error {
	return c.server.Stop(ctx)
}

// Health reports healthy while the server is serving.
func (c *Component) Health(context.Context) component.Health {
	if c.server.Running() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not running",
	}
}

// Describe returns the summary line for startup output.
func (c *Component) Describe() component.Description {
	cfg := c.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s (max body %s)", c.server.Addr(), cfg.MaxBodySize),
		Port:    cfg.Port,
	}
}

// Routes returns all registered Gin routes for the startup summary.
func (c *Component) Routes() []component.Route {
	return routeTable(c.server.engine.Routes())
}
