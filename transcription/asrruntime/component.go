package asrruntime

import (
	"context"

	"github.com/kbukum/asrgateway/component"
)

// Component exposes a Client to the lifecycle registry so /ready reflects
// whether the runtime answers its health probe.
type Component struct {
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps client.
func NewComponent(client *Client) *Component {
	return &Component{client: client}
}

func (c *Component) Name() string { return ProviderName }

// Start does nothing: an unreachable runtime must not block startup.
func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(context.Context) error {
	c.client.Close()
	return nil
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.client.IsAvailable(ctx) {
		return component.Health{Name: ProviderName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    ProviderName,
		Status:  component.StatusUnhealthy,
		Message: "health probe failed",
	}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "ASR runtime",
		Type:    "asr-backend",
		Details: c.client.cfg.BaseURL + " response=" + c.client.cfg.ResponseTimeout.String(),
	}
}

// Client returns the wrapped client.
func (c *Component) Client() *Client { return c.client }
