package player

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avhost/playerd/internal/control"
)

func mustCommand(t *testing.T, cl control.Client, args ...any) any {
	t.Helper()
	v, err := cl.Command(args)
	require.NoError(t, err)
	return v
}

func TestCommandValidation(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	_, err := cl.Command(nil)
	assert.ErrorIs(t, err, control.ErrInvalidParameter)

	_, err = cl.Command([]any{42})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)

	_, err = cl.Command([]any{"no-such-command"})
	assert.ErrorIs(t, err, control.ErrCommand)
}

func TestLoadfileAndStop(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	mustCommand(t, cl, "loadfile", "/media/movie.mkv")

	assert.Equal(t, control.EventStartFile, drainNamed(t, cl, control.EventStartFile).Name)
	assert.Equal(t, control.EventFileLoaded, drainNamed(t, cl, control.EventFileLoaded).Name)

	v, err := cl.GetProperty("path")
	require.NoError(t, err)
	assert.Equal(t, "/media/movie.mkv", v)

	v, err = cl.GetProperty("filename")
	require.NoError(t, err)
	assert.Equal(t, "movie.mkv", v)

	v, err = cl.GetProperty("idle-active")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = cl.GetProperty("playlist-pos")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	mustCommand(t, cl, "stop")
	assert.Equal(t, control.EventEndFile, drainNamed(t, cl, control.EventEndFile).Name)
	assert.Equal(t, control.EventIdle, drainNamed(t, cl, control.EventIdle).Name)

	_, err = cl.GetProperty("path")
	assert.ErrorIs(t, err, control.ErrPropertyUnavailable)

	v, err = cl.GetProperty("idle-active")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = cl.Command([]any{"loadfile"})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
	_, err = cl.Command([]any{"loadfile", 42})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
}

func TestPlaylistNavigation(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	mustCommand(t, cl, "loadfile", "/media/one.mkv")
	mustCommand(t, cl, "loadfile", "/media/two.mkv")

	v, err := cl.GetProperty("playlist-count")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = cl.GetProperty("playlist-pos")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	mustCommand(t, cl, "playlist-prev")
	v, err = cl.GetProperty("filename")
	require.NoError(t, err)
	assert.Equal(t, "one.mkv", v)

	mustCommand(t, cl, "playlist-next")
	v, err = cl.GetProperty("filename")
	require.NoError(t, err)
	assert.Equal(t, "two.mkv", v)

	_, err = cl.Command([]any{"playlist-next"})
	assert.ErrorIs(t, err, control.ErrCommand, "stepping past the end fails")

	list := mustCommand(t, cl, "get-playlist")
	assert.Equal(t, []any{"/media/one.mkv", "/media/two.mkv"}, list)
}

func TestSeek(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	// Seeking with nothing loaded fails.
	_, err := cl.Command([]any{"seek", json.Number("10")})
	assert.ErrorIs(t, err, control.ErrCommand)

	mustCommand(t, cl, "loadfile", "/media/movie.mkv")

	mustCommand(t, cl, "seek", json.Number("10"))
	v, err := cl.GetProperty("time-pos")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	mustCommand(t, cl, "seek", json.Number("5.5"))
	v, err = cl.GetProperty("time-pos")
	require.NoError(t, err)
	assert.Equal(t, 15.5, v)

	mustCommand(t, cl, "seek", json.Number("3"), "absolute")
	v, err = cl.GetProperty("time-pos")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	// Relative seeks clamp at zero.
	mustCommand(t, cl, "seek", json.Number("-100"))
	v, err = cl.GetProperty("time-pos")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = cl.Command([]any{"seek"})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
	_, err = cl.Command([]any{"seek", "ten"})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
	_, err = cl.Command([]any{"seek", json.Number("1"), "sideways"})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
}

func TestCycle(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	mustCommand(t, cl, "cycle", "pause")
	v, err := cl.GetProperty("pause")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	mustCommand(t, cl, "cycle", "pause")
	v, err = cl.GetProperty("pause")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	mustCommand(t, cl, "cycle", "volume")
	v, err = cl.GetProperty("volume")
	require.NoError(t, err)
	assert.Equal(t, 101.0, v)

	_, err = cl.Command([]any{"cycle", "no-such-property"})
	assert.ErrorIs(t, err, control.ErrPropertyNotFound)
	_, err = cl.Command([]any{"cycle"})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
}

func TestCycleUnavailableProperty(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	// No file is loaded, so time-pos has no value to step.
	_, err := cl.Command([]any{"cycle", "time-pos"})
	assert.ErrorIs(t, err, control.ErrPropertyUnavailable)

	// The failed cycle must not have made the property readable.
	_, err = cl.GetProperty("time-pos")
	assert.ErrorIs(t, err, control.ErrPropertyUnavailable)

	select {
	case ev := <-cl.Events():
		t.Fatalf("unexpected event %q from failed cycle", ev.Name)
	default:
	}
}

func TestScriptMessage(t *testing.T) {
	core := NewCore()
	sender := newTestClient(t, core, "ipc-0")
	receiver := newTestClient(t, core, "ipc-1")

	mustCommand(t, sender, "script-message", "my-handler", "arg1")

	ev := drainNamed(t, receiver, control.EventClientMessage)
	assert.Equal(t, control.ClientMessage{Args: []string{"my-handler", "arg1"}}, ev.Data)

	// The sender is a client too and hears its own message.
	ev = drainNamed(t, sender, control.EventClientMessage)
	assert.Equal(t, control.ClientMessage{Args: []string{"my-handler", "arg1"}}, ev.Data)

	_, err := sender.Command([]any{"script-message", "handler", 42})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
}

func TestShowText(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	mustCommand(t, cl, "show-text", "hello there")

	ev := drainNamed(t, cl, control.EventLogMessage)
	msg := ev.Data.(control.LogMessage)
	assert.Equal(t, "osd", msg.Prefix)
	assert.Equal(t, "hello there", msg.Text)

	_, err := cl.Command([]any{"show-text"})
	assert.ErrorIs(t, err, control.ErrInvalidParameter)
}
