package player

import (
	"encoding/json"
	"strconv"

	"github.com/avhost/playerd/internal/control"
)

type propertyKind int

const (
	kindFlag propertyKind = iota
	kindInt64
	kindDouble
	kindString
)

// property is one entry in the core property store. value holds a bool,
// int64, float64 or string matching kind. available distinguishes
// properties that exist but currently have no value (no file loaded).
type property struct {
	kind      propertyKind
	writable  bool
	value     any
	available bool
}

func defaultProperties() map[string]*property {
	return map[string]*property{
		"pause":          {kind: kindFlag, writable: true, value: false, available: true},
		"mute":           {kind: kindFlag, writable: true, value: false, available: true},
		"volume":         {kind: kindDouble, writable: true, value: 100.0, available: true},
		"speed":          {kind: kindDouble, writable: true, value: 1.0, available: true},
		"time-pos":       {kind: kindDouble, writable: true, value: 0.0, available: false},
		"duration":       {kind: kindDouble, value: 0.0, available: false},
		"filename":       {kind: kindString, value: "", available: false},
		"path":           {kind: kindString, value: "", available: false},
		"media-title":    {kind: kindString, value: "", available: false},
		"playlist-pos":   {kind: kindInt64, writable: true, value: int64(-1), available: true},
		"playlist-count": {kind: kindInt64, value: int64(0), available: true},
		"idle-active":    {kind: kindFlag, value: true, available: true},
	}
}

func (c *client) GetProperty(name string) (any, error) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	p, ok := c.core.props[name]
	if !ok {
		return nil, control.ErrPropertyNotFound
	}
	if !p.available {
		return nil, control.ErrPropertyUnavailable
	}
	return p.value, nil
}

func (c *client) GetPropertyString(name string) any {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	p, ok := c.core.props[name]
	if !ok || !p.available {
		return nil
	}
	return formatPropertyValue(p)
}

func (c *client) SetProperty(name string, value any) error {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	return c.core.setPropertyLocked(name, value)
}

func (c *client) SetPropertyString(name, value string) error {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	p, ok := c.core.props[name]
	if !ok {
		return control.ErrPropertyNotFound
	}
	parsed, err := parsePropertyString(p.kind, value)
	if err != nil {
		return err
	}
	return c.core.setPropertyLocked(name, parsed)
}

// setPropertyLocked performs a caller-initiated property write: only
// writable properties, with type coercion from the generic value tree.
func (co *Core) setPropertyLocked(name string, value any) error {
	p, ok := co.props[name]
	if !ok {
		return control.ErrPropertyNotFound
	}
	if !p.writable {
		return control.ErrPropertyError
	}

	coerced, err := coercePropertyValue(p.kind, value)
	if err != nil {
		return err
	}

	prev := p.value
	wasAvailable := p.available
	p.value = coerced
	p.available = true

	if wasAvailable && prev == coerced {
		return nil
	}
	co.propertyChangedLocked(name, p)

	// pause flips carry dedicated bare events besides the observation.
	if name == "pause" {
		if coerced.(bool) {
			co.broadcastLocked(control.Event{Name: control.EventPause})
		} else {
			co.broadcastLocked(control.Event{Name: control.EventUnpause})
		}
	}
	return nil
}

// storeLocked writes a property from inside the core, bypassing the
// writable check (playback state transitions).
func (co *Core) storeLocked(name string, value any, available bool) {
	p := co.props[name]
	changed := p.value != value || p.available != available
	p.value = value
	p.available = available
	if changed && available {
		co.propertyChangedLocked(name, p)
	}
}

// propertyChangedLocked fans a change out to every matching observation
// of every client, in the format each registration asked for.
func (co *Core) propertyChangedLocked(name string, p *property) {
	for cl := range co.clients {
		for id, obs := range cl.observations {
			if obs.name != name {
				continue
			}
			cl.queueEventLocked(propertyChangeEvent(id, name, p, obs.stringFormat))
		}
	}
}

func propertyChangeEvent(id int64, name string, p *property, stringFormat bool) control.Event {
	var value any
	if p.available {
		if stringFormat {
			value = formatPropertyValue(p)
		} else {
			value = p.value
		}
	}
	return control.Event{
		Name: control.EventPropertyChange,
		ID:   id,
		Data: control.PropertyChange{Name: name, Value: value},
	}
}

// coercePropertyValue maps a generic JSON value onto a property kind.
// Numbers arrive as json.Number from the wire and as native Go numbers
// from internal callers.
func coercePropertyValue(kind propertyKind, value any) (any, error) {
	switch kind {
	case kindFlag:
		b, ok := value.(bool)
		if !ok {
			return nil, control.ErrPropertyFormat
		}
		return b, nil

	case kindInt64:
		switch v := value.(type) {
		case json.Number:
			i, err := v.Int64()
			if err != nil {
				return nil, control.ErrPropertyFormat
			}
			return i, nil
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		default:
			return nil, control.ErrPropertyFormat
		}

	case kindDouble:
		switch v := value.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, control.ErrPropertyFormat
			}
			return f, nil
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		default:
			return nil, control.ErrPropertyFormat
		}

	case kindString:
		s, ok := value.(string)
		if !ok {
			return nil, control.ErrPropertyFormat
		}
		return s, nil
	}
	return nil, control.ErrPropertyFormat
}

// parsePropertyString parses the string form used by set_property_string.
func parsePropertyString(kind propertyKind, s string) (any, error) {
	switch kind {
	case kindFlag:
		switch s {
		case "yes", "true":
			return true, nil
		case "no", "false":
			return false, nil
		}
		return nil, control.ErrPropertyFormat

	case kindInt64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, control.ErrPropertyFormat
		}
		return i, nil

	case kindDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, control.ErrPropertyFormat
		}
		return f, nil

	case kindString:
		return s, nil
	}
	return nil, control.ErrPropertyFormat
}

// formatPropertyValue renders a property in its string form: flags as
// yes/no, numbers in decimal, strings unchanged.
func formatPropertyValue(p *property) string {
	switch v := p.value.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return ""
	}
}
