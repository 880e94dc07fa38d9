package hydra

import (
	"context"
	"fmt"

	"github.com/kbukum/hydrakit/component"
)

// Compile-time interface checks.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component wraps a Client for lifecycle management in a component.Registry.
type Component struct {
	client *Client
	name   string
}

// NewComponent wraps c. An empty name defaults to "hydra".
func NewComponent(c *Client, name string) *Component {
	if name == "" {
		name = "hydra"
	}
	return &Component{client: c, name: name}
}

// Client returns the wrapped client.
func (c *Component) Client() *Client { return c.client }

// Name implements component.Component.
func (c *Component) Name() string { return c.name }

// Start implements component.Component. The client has nothing to open.
func (c *Component) Start(context.Context) error { return nil }

// Stop implements component.Component.
func (c *Component) Stop(ctx context.Context) error {
	return c.client.Close(ctx)
}

// Health fetches the entrypoint. A transport error or a 5xx answer is
// unhealthy; any other error status is degraded.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.name, Status: component.StatusHealthy}

	res, err := Get[map[string]any](ctx, c.client, "")
	switch {
	case err != nil:
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	case res.Success:
	case res.Status >= 500:
		h.Status = component.StatusUnhealthy
		h.Message = fmt.Sprintf("HTTP %d: %s", res.Status, res.Error.BestMessage())
	default:
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("HTTP %d: %s", res.Status, res.Error.BestMessage())
	}
	return h
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.name,
		Type:    "hydra-client",
		Details: c.client.Entrypoint(),
	}
}
