package ipcserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avhost/playerd/internal/player"
)

// startSession wires a session to the real player core over an
// in-memory pipe and returns the peer end.
func startSession(t *testing.T, core *player.Core) net.Conn {
	t.Helper()

	server, peer := net.Pipe()
	sess, err := newSession(0, server, core, 0, nil)
	require.NoError(t, err)
	go sess.run()

	t.Cleanup(func() { peer.Close() })
	return peer
}

func readLine(t *testing.T, r *bufio.Reader) map[string]any {
	t.Helper()

	line, err := r.ReadBytes('\n')
	require.NoError(t, err)

	var v map[string]any
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestSessionRepliesInRequestOrder(t *testing.T) {
	peer := startSession(t, player.NewCore())
	r := bufio.NewReader(peer)

	// Two requests in a single write must produce two replies, in order.
	_, err := peer.Write([]byte(
		`{"command": ["client_name"]}` + "\n" +
			`{"command": ["get_property", "volume"]}` + "\n"))
	require.NoError(t, err)

	first := readLine(t, r)
	assert.Equal(t, "ipc-0", first["data"])
	assert.Equal(t, "success", first["error"])

	second := readLine(t, r)
	assert.Equal(t, json.Number("100"), second["data"])
	assert.Equal(t, "success", second["error"])
}

func TestSessionSurvivesInvalidLine(t *testing.T) {
	peer := startSession(t, player.NewCore())
	r := bufio.NewReader(peer)

	_, err := peer.Write([]byte("garbage\n"))
	require.NoError(t, err)
	assert.Equal(t, "invalid parameter", readLine(t, r)["error"])

	_, err = peer.Write([]byte(`{"command": ["client_name"]}` + "\n"))
	require.NoError(t, err)
	reply := readLine(t, r)
	assert.Equal(t, "success", reply["error"])
	assert.Equal(t, "ipc-0", reply["data"])
}

func TestSessionDeliversObservedChanges(t *testing.T) {
	peer := startSession(t, player.NewCore())
	r := bufio.NewReader(peer)

	_, err := peer.Write([]byte(`{"command": ["observe_property", 1, "pause"]}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "success", readLine(t, r)["error"])

	// The subscription starts with the current value.
	initial := readLine(t, r)
	assert.Equal(t, "property-change", initial["event"])
	assert.Equal(t, json.Number("1"), initial["id"])
	assert.Equal(t, "pause", initial["name"])
	assert.Equal(t, false, initial["data"])

	_, err = peer.Write([]byte(`{"command": ["set_property", "pause", true]}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "success", readLine(t, r)["error"])

	// The write triggers the observation plus the bare pause event, in
	// queue order.
	sawChange := false
	sawPause := false
	for i := 0; i < 2; i++ {
		ev := readLine(t, r)
		switch ev["event"] {
		case "property-change":
			sawChange = true
			assert.Equal(t, true, ev["data"])
		case "pause":
			sawPause = true
		}
	}
	assert.True(t, sawChange)
	assert.True(t, sawPause)
}

func TestSessionStopsOnShutdownEvent(t *testing.T) {
	core := player.NewCore()
	peer := startSession(t, core)
	r := bufio.NewReader(peer)

	// Make sure the session is up before shutting down.
	_, err := peer.Write([]byte(`{"command": ["client_name"]}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "success", readLine(t, r)["error"])

	core.Shutdown()

	peer.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, err = r.ReadBytes('\n')
	assert.Error(t, err, "session must close the connection on shutdown")
}

func TestSessionCallsOnDone(t *testing.T) {
	server, peer := net.Pipe()
	done := make(chan struct{})
	sess, err := newSession(3, server, player.NewCore(), 0, func() { close(done) })
	require.NoError(t, err)
	go sess.run()

	assert.Equal(t, "ipc-3", sess.client.Name())

	peer.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not report completion after peer close")
	}
}

func TestSessionDropsOversizedLine(t *testing.T) {
	core := player.NewCore()
	server, peer := net.Pipe()
	sess, err := newSession(0, server, core, 32, nil)
	require.NoError(t, err)
	go sess.run()
	defer peer.Close()

	_, err = peer.Write([]byte(`{"command": ["this line goes on well past the cap`))
	require.NoError(t, err)

	peer.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, err = bufio.NewReader(peer).ReadBytes('\n')
	assert.Error(t, err, "overflowing the line cap must drop the connection")
}
