package ipcclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// ClientName returns the name the server assigned to this connection.
func (c *Client) ClientName(ctx context.Context) (string, error) {
	v, err := c.Do(ctx, "client_name")
	if err != nil {
		return "", err
	}
	name, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected client_name reply type %T", v)
	}
	return name, nil
}

// TimeUS returns the server's monotonic clock in microseconds.
func (c *Client) TimeUS(ctx context.Context) (int64, error) {
	v, err := c.Do(ctx, "get_time_us")
	if err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("unexpected get_time_us reply type %T", v)
	}
	return n.Int64()
}

// GetProperty reads a property in its native type.
func (c *Client) GetProperty(ctx context.Context, name string) (any, error) {
	return c.Do(ctx, "get_property", name)
}

// GetPropertyString reads a property formatted as a string. The reply
// is nil when the property is missing or unavailable.
func (c *Client) GetPropertyString(ctx context.Context, name string) (any, error) {
	return c.Do(ctx, "get_property_string", name)
}

// SetProperty writes a property from a native value.
func (c *Client) SetProperty(ctx context.Context, name string, value any) error {
	_, err := c.Do(ctx, "set_property", name, value)
	return err
}

// SetPropertyString writes a property from its string form.
func (c *Client) SetPropertyString(ctx context.Context, name, value string) error {
	_, err := c.Do(ctx, "set_property_string", name, value)
	return err
}

// ObserveProperty subscribes to change notifications for name under the
// caller-chosen id. Values arrive natively typed.
func (c *Client) ObserveProperty(ctx context.Context, id int64, name string) error {
	_, err := c.Do(ctx, "observe_property", id, name)
	return err
}

// ObservePropertyString is ObserveProperty with string-formatted values.
func (c *Client) ObservePropertyString(ctx context.Context, id int64, name string) error {
	_, err := c.Do(ctx, "observe_property_string", id, name)
	return err
}

// UnobserveProperty cancels the observation registered under id.
func (c *Client) UnobserveProperty(ctx context.Context, id int64) error {
	_, err := c.Do(ctx, "unobserve_property", id)
	return err
}

// Suspend pauses server-side processing until a matching Resume.
func (c *Client) Suspend(ctx context.Context) error {
	_, err := c.Do(ctx, "suspend")
	return err
}

// Resume undoes one Suspend.
func (c *Client) Resume(ctx context.Context) error {
	_, err := c.Do(ctx, "resume")
	return err
}

// Command runs a named player command with arguments.
func (c *Client) Command(ctx context.Context, name string, args ...any) (any, error) {
	cmd := append([]any{name}, args...)
	return c.Do(ctx, cmd...)
}
