package ipcserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/avhost/playerd/internal/control"
)

// reply is the outcome of one command, before encoding. data is only
// emitted when hasData is set; the error status string is always emitted.
type reply struct {
	data    any
	hasData bool
	err     error
}

// executeLine decodes one request line, dispatches it against the
// built-in command table (falling through to the control-plane's generic
// command executor), and returns the encoded reply line. Request-level
// failures become reply-level error strings; the connection stays usable.
func executeLine(cl control.Client, line []byte) []byte {
	return encodeReply(dispatch(cl, line))
}

func dispatch(cl control.Client, line []byte) reply {
	cmd, err := decodeRequest(line)
	if err != nil {
		return reply{err: err}
	}

	name := cmd[0].(string)
	args := cmd[1:]

	switch name {
	case "client_name":
		if len(args) != 0 {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{data: cl.Name(), hasData: true}

	case "get_time_us":
		if len(args) != 0 {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{data: cl.TimeUS(), hasData: true}

	case "get_property":
		prop, ok := stringArgs1(args)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		v, err := cl.GetProperty(prop)
		if err != nil {
			return reply{err: err}
		}
		return reply{data: v, hasData: true}

	case "get_property_string":
		prop, ok := stringArgs1(args)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{data: cl.GetPropertyString(prop), hasData: true}

	case "set_property":
		if len(args) != 2 {
			return reply{err: control.ErrInvalidParameter}
		}
		prop, ok := args[0].(string)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{err: cl.SetProperty(prop, args[1])}

	case "set_property_string":
		if len(args) != 2 {
			return reply{err: control.ErrInvalidParameter}
		}
		prop, ok := args[0].(string)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		value, ok := args[1].(string)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{err: cl.SetPropertyString(prop, value)}

	case "observe_property":
		id, prop, ok := intStringArgs(args)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{err: cl.ObserveProperty(id, prop)}

	case "observe_property_string":
		id, prop, ok := intStringArgs(args)
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{err: cl.ObservePropertyString(id, prop)}

	case "unobserve_property":
		if len(args) != 1 {
			return reply{err: control.ErrInvalidParameter}
		}
		id, ok := int64Arg(args[0])
		if !ok {
			return reply{err: control.ErrInvalidParameter}
		}
		return reply{err: cl.UnobserveProperty(id)}

	case "suspend":
		if len(args) != 0 {
			return reply{err: control.ErrInvalidParameter}
		}
		cl.Suspend()
		return reply{}

	case "resume":
		if len(args) != 0 {
			return reply{err: control.ErrInvalidParameter}
		}
		cl.Resume()
		return reply{}

	default:
		// Anything outside the built-in table goes to the generic
		// command executor verbatim, name included.
		v, err := cl.Command(cmd)
		if err != nil {
			return reply{err: err}
		}
		return reply{data: v, hasData: v != nil}
	}
}

// decodeRequest parses one line into the command array. The line must be
// a single JSON object with a "command" key holding a non-empty array
// whose first element is a string; anything else, including trailing
// content after the object, is an invalid request.
func decodeRequest(line []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, control.ErrInvalidParameter
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, control.ErrInvalidParameter
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, control.ErrInvalidParameter
	}
	cmd, ok := obj["command"].([]any)
	if !ok || len(cmd) == 0 {
		return nil, control.ErrInvalidParameter
	}
	if _, ok := cmd[0].(string); !ok {
		return nil, control.ErrInvalidParameter
	}
	return cmd, nil
}

// encodeReply serializes a reply to one newline-terminated JSON line.
func encodeReply(r reply) []byte {
	m := map[string]any{"error": control.StatusText(r.err)}
	if r.hasData {
		m["data"] = r.data
	}
	return marshalLine(m)
}

// encodeEvent serializes an asynchronous event to one newline-terminated
// JSON line.
func encodeEvent(ev control.Event) []byte {
	m := map[string]any{"event": ev.Name}
	if ev.ID != 0 {
		m["id"] = ev.ID
	}
	if ev.Err != nil {
		m["error"] = control.StatusText(ev.Err)
	}

	switch data := ev.Data.(type) {
	case control.LogMessage:
		m["prefix"] = data.Prefix
		m["level"] = data.Level
		m["text"] = data.Text
	case control.InputDispatch:
		m["arg0"] = data.Arg0
		m["type"] = data.Type
	case control.ClientMessage:
		args := make([]any, len(data.Args))
		for i, a := range data.Args {
			args[i] = a
		}
		m["args"] = args
	case control.PropertyChange:
		m["name"] = data.Name
		m["data"] = data.Value
	}
	return marshalLine(m)
}

func marshalLine(m map[string]any) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		// Values originate from decoded JSON or the control-plane's own
		// value trees, so this does not happen; keep the wire consistent
		// if it ever does.
		b, _ = json.Marshal(map[string]any{"error": control.ErrInvalidParameter.String()})
	}
	return append(b, '\n')
}

func stringArgs1(args []any) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}

func intStringArgs(args []any) (int64, string, bool) {
	if len(args) != 2 {
		return 0, "", false
	}
	id, ok := int64Arg(args[0])
	if !ok {
		return 0, "", false
	}
	s, ok := args[1].(string)
	if !ok {
		return 0, "", false
	}
	return id, s, true
}

// int64Arg accepts only integral JSON numbers; floats and other types
// are rejected.
func int64Arg(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}
