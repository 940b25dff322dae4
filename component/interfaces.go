package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the service.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component reports about itself in the startup summary.
type Description struct {
	// Name is the display name; Name() is used when empty.
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable is optionally implemented by components that want a line
// in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is a registered HTTP route for the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is optionally implemented by server components.
type RouteProvider interface {
	Routes() []Route
}
