package player

import (
	"encoding/json"
	"path/filepath"

	"github.com/avhost/playerd/internal/control"
)

// Command executes a generic player command. args holds the command name
// followed by its arguments, as decoded from the wire. Unknown commands
// fail with the command error status.
func (c *client) Command(args []any) (any, error) {
	if len(args) == 0 {
		return nil, control.ErrInvalidParameter
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, control.ErrInvalidParameter
	}
	rest := args[1:]

	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	switch name {
	case "cycle":
		return nil, c.core.cycleLocked(rest)
	case "seek":
		return nil, c.core.seekLocked(rest)
	case "loadfile":
		return nil, c.core.loadfileLocked(rest)
	case "stop":
		return nil, c.core.stopLocked()
	case "playlist-next":
		return nil, c.core.playlistStepLocked(1)
	case "playlist-prev":
		return nil, c.core.playlistStepLocked(-1)
	case "script-message":
		return nil, c.core.scriptMessageLocked(rest)
	case "show-text":
		return nil, c.core.showTextLocked(rest)
	case "get-playlist":
		list := make([]any, len(c.core.playlist))
		for i, p := range c.core.playlist {
			list[i] = p
		}
		return list, nil
	case "quit":
		c.core.shutdownLocked()
		return nil, nil
	default:
		return nil, control.ErrCommand
	}
}

// cycleLocked toggles a flag property or steps a numeric one by 1.
func (co *Core) cycleLocked(args []any) error {
	if len(args) != 1 {
		return control.ErrInvalidParameter
	}
	name, ok := args[0].(string)
	if !ok {
		return control.ErrInvalidParameter
	}
	p, ok := co.props[name]
	if !ok {
		return control.ErrPropertyNotFound
	}
	if !p.available {
		return control.ErrPropertyUnavailable
	}

	switch v := p.value.(type) {
	case bool:
		return co.setPropertyLocked(name, !v)
	case int64:
		return co.setPropertyLocked(name, v+1)
	case float64:
		return co.setPropertyLocked(name, v+1)
	default:
		return control.ErrPropertyFormat
	}
}

// seekLocked moves time-pos. The default mode is relative; "absolute"
// seeks to the given position. Positions clamp to [0, duration] when the
// duration is known.
func (co *Core) seekLocked(args []any) error {
	if len(args) < 1 || len(args) > 2 {
		return control.ErrInvalidParameter
	}
	offset, ok := numberArg(args[0])
	if !ok {
		return control.ErrInvalidParameter
	}
	mode := "relative"
	if len(args) == 2 {
		if mode, ok = args[1].(string); !ok {
			return control.ErrInvalidParameter
		}
	}

	pos := co.props["time-pos"]
	if !pos.available {
		return control.ErrCommand
	}

	target := offset
	if mode == "relative" {
		target = pos.value.(float64) + offset
	} else if mode != "absolute" {
		return control.ErrInvalidParameter
	}

	if target < 0 {
		target = 0
	}
	if dur := co.props["duration"]; dur.available {
		if d := dur.value.(float64); target > d {
			target = d
		}
	}
	co.storeLocked("time-pos", target, true)
	return nil
}

// loadfileLocked starts playback of a path, appending it to the playlist.
func (co *Core) loadfileLocked(args []any) error {
	if len(args) != 1 {
		return control.ErrInvalidParameter
	}
	path, ok := args[0].(string)
	if !ok || path == "" {
		return control.ErrInvalidParameter
	}

	co.playlist = append(co.playlist, path)
	co.broadcastLocked(control.Event{Name: control.EventStartFile})
	co.selectPlaylistEntryLocked(len(co.playlist) - 1)
	co.broadcastLocked(control.Event{Name: control.EventFileLoaded})
	co.log.Info("playing: %s", path)
	return nil
}

// selectPlaylistEntryLocked switches playback to playlist entry i.
func (co *Core) selectPlaylistEntryLocked(i int) {
	path := co.playlist[i]
	base := filepath.Base(path)

	co.storeLocked("path", path, true)
	co.storeLocked("filename", base, true)
	co.storeLocked("media-title", base, true)
	co.storeLocked("time-pos", 0.0, true)
	co.storeLocked("idle-active", false, true)
	co.storeLocked("playlist-pos", int64(i), true)
	co.storeLocked("playlist-count", int64(len(co.playlist)), true)
}

func (co *Core) stopLocked() error {
	co.storeLocked("path", "", false)
	co.storeLocked("filename", "", false)
	co.storeLocked("media-title", "", false)
	co.storeLocked("time-pos", 0.0, false)
	co.storeLocked("duration", 0.0, false)
	co.storeLocked("idle-active", true, true)
	co.storeLocked("playlist-pos", int64(-1), true)
	co.broadcastLocked(control.Event{Name: control.EventEndFile})
	co.broadcastLocked(control.Event{Name: control.EventIdle})
	return nil
}

func (co *Core) playlistStepLocked(step int) error {
	pos := int(co.props["playlist-pos"].value.(int64))
	next := pos + step
	if next < 0 || next >= len(co.playlist) {
		return control.ErrCommand
	}
	co.broadcastLocked(control.Event{Name: control.EventStartFile})
	co.selectPlaylistEntryLocked(next)
	co.broadcastLocked(control.Event{Name: control.EventFileLoaded})
	return nil
}

// scriptMessageLocked relays string arguments to every client as a
// client-message event.
func (co *Core) scriptMessageLocked(args []any) error {
	strs := make([]string, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return control.ErrInvalidParameter
		}
		strs[i] = s
	}
	co.broadcastLocked(control.Event{
		Name: control.EventClientMessage,
		Data: control.ClientMessage{Args: strs},
	})
	return nil
}

func (co *Core) showTextLocked(args []any) error {
	if len(args) != 1 {
		return control.ErrInvalidParameter
	}
	text, ok := args[0].(string)
	if !ok {
		return control.ErrInvalidParameter
	}
	co.broadcastLocked(control.Event{
		Name: control.EventLogMessage,
		Data: control.LogMessage{Prefix: "osd", Level: "info", Text: text},
	})
	return nil
}

func numberArg(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
