package player

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avhost/playerd/internal/control"
)

func TestGetPropertyDefaults(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	tests := []struct {
		name string
		want any
	}{
		{"pause", false},
		{"mute", false},
		{"volume", 100.0},
		{"speed", 1.0},
		{"playlist-pos", int64(-1)},
		{"playlist-count", int64(0)},
		{"idle-active", true},
	}
	for _, tt := range tests {
		v, err := cl.GetProperty(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, v, tt.name)
	}
}

func TestGetPropertyErrors(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	_, err := cl.GetProperty("no-such-property")
	assert.ErrorIs(t, err, control.ErrPropertyNotFound)

	// No file is loaded, so playback properties exist but have no value.
	for _, name := range []string{"time-pos", "duration", "filename", "path", "media-title"} {
		_, err := cl.GetProperty(name)
		assert.ErrorIs(t, err, control.ErrPropertyUnavailable, name)
	}
}

func TestGetPropertyString(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	tests := []struct {
		name string
		want any
	}{
		{"pause", "no"},
		{"idle-active", "yes"},
		{"volume", "100"},
		{"speed", "1"},
		{"playlist-pos", "-1"},
		{"no-such-property", nil},
		{"time-pos", nil}, // unavailable reads as nil, not as an error
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cl.GetPropertyString(tt.name), tt.name)
	}
}

func TestSetPropertyCoercion(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	require.NoError(t, cl.SetProperty("pause", true))
	v, err := cl.GetProperty("pause")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// Wire values arrive as json.Number.
	require.NoError(t, cl.SetProperty("volume", json.Number("64.5")))
	v, err = cl.GetProperty("volume")
	require.NoError(t, err)
	assert.Equal(t, 64.5, v)

	require.NoError(t, cl.SetProperty("playlist-pos", json.Number("0")))

	tests := []struct {
		name  string
		value any
		want  error
	}{
		{"pause", "yes", control.ErrPropertyFormat},
		{"pause", json.Number("1"), control.ErrPropertyFormat},
		{"volume", "loud", control.ErrPropertyFormat},
		{"playlist-pos", json.Number("1.5"), control.ErrPropertyFormat},
		{"duration", 10.0, control.ErrPropertyError}, // read-only
		{"idle-active", false, control.ErrPropertyError},
		{"no-such-property", 1, control.ErrPropertyNotFound},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, cl.SetProperty(tt.name, tt.value), tt.want, "%s = %v", tt.name, tt.value)
	}
}

func TestSetPropertyString(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	require.NoError(t, cl.SetPropertyString("pause", "yes"))
	v, err := cl.GetProperty("pause")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	require.NoError(t, cl.SetPropertyString("pause", "false"))
	v, err = cl.GetProperty("pause")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	require.NoError(t, cl.SetPropertyString("volume", "42.25"))
	v, err = cl.GetProperty("volume")
	require.NoError(t, err)
	assert.Equal(t, 42.25, v)

	assert.ErrorIs(t, cl.SetPropertyString("pause", "maybe"), control.ErrPropertyFormat)
	assert.ErrorIs(t, cl.SetPropertyString("playlist-pos", "abc"), control.ErrPropertyFormat)
	assert.ErrorIs(t, cl.SetPropertyString("no-such-property", "1"), control.ErrPropertyNotFound)
}

func TestSetPropertyUnchangedValueDoesNotNotify(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	require.NoError(t, cl.ObserveProperty(1, "volume"))
	nextEvent(t, cl) // initial value

	require.NoError(t, cl.SetProperty("volume", 100.0))
	select {
	case ev := <-cl.Events():
		t.Fatalf("unexpected event %q for unchanged value", ev.Name)
	default:
	}

	require.NoError(t, cl.SetProperty("volume", 99.0))
	ev := nextEvent(t, cl)
	data := ev.Data.(control.PropertyChange)
	assert.Equal(t, 99.0, data.Value)
}

func TestPauseFlipsEmitBareEvents(t *testing.T) {
	core := NewCore()
	cl := newTestClient(t, core, "ipc-0")

	require.NoError(t, cl.SetProperty("pause", true))
	assert.Equal(t, control.EventPause, nextEvent(t, cl).Name)

	require.NoError(t, cl.SetProperty("pause", false))
	assert.Equal(t, control.EventUnpause, nextEvent(t, cl).Name)

	// Re-setting the same value emits nothing.
	require.NoError(t, cl.SetProperty("pause", false))
	select {
	case ev := <-cl.Events():
		t.Fatalf("unexpected event %q", ev.Name)
	default:
	}
}
