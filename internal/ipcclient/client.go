// Package ipcclient is the Go-side counterpart of the IPC socket: it
// dials a running daemon, sends command arrays and matches the
// strictly ordered replies, and hands asynchronous events to the
// caller on a channel.
package ipcclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/avhost/playerd/internal/consts"
	"github.com/avhost/playerd/internal/logger"
	"github.com/avhost/playerd/internal/socketutil"
)

// ServerError is a non-success reply status from the server.
type ServerError struct {
	Status string
}

func (e *ServerError) Error() string {
	return e.Status
}

// Event is one asynchronous notification from the server. Fields holds
// the event-specific payload keys (prefix/level/text, args, name/data,
// arg0/type) as decoded JSON values.
type Event struct {
	Name   string
	ID     int64
	Err    string
	Fields map[string]any
}

// Client is a connection to the player's IPC socket. Replies are
// correlated to requests by the protocol's strict per-connection FIFO
// order; events are surfaced on a separate channel.
type Client struct {
	conn   net.Conn
	events chan Event

	mu      sync.Mutex
	pending []chan response
	closed  bool

	closeOnce sync.Once
}

type response struct {
	data    any
	hasData bool
	err     error
}

// Dial connects to the socket at path (~ expands to the home directory).
func Dial(path string) (*Client, error) {
	expanded, err := socketutil.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialTimeout("unix", expanded, consts.Timeout5Seconds)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", expanded, err)
	}

	c := &Client{
		conn:   conn,
		events: make(chan Event, consts.ClientEventQueueSize),
	}
	go c.readLoop()
	return c, nil
}

// Events returns the asynchronous event channel. It is closed when the
// connection ends. Events that arrive while the channel is full are
// dropped.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Close shuts the connection down. In-flight requests fail.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
	})
	return err
}

// Do sends one command and waits for its reply. args is the command
// name followed by its arguments.
func (c *Client) Do(ctx context.Context, args ...any) (any, error) {
	line, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}
	line = append(line, '\n')

	ch := make(chan response, 1)

	// Queueing the waiter and writing the line under one lock keeps the
	// waiter order aligned with the server's reply order.
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, net.ErrClosed
	}
	c.pending = append(c.pending, ch)
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetWriteDeadline(deadline)
	} else {
		c.conn.SetWriteDeadline(time.Now().Add(consts.Timeout10Seconds))
	}
	_, err = c.conn.Write(line)
	c.mu.Unlock()

	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	select {
	case <-ctx.Done():
		// The reply will still arrive; abandoning the connection is the
		// only way to stop waiting without desynchronizing the FIFO.
		c.Close()
		return nil, ctx.Err()
	case resp := <-ch:
		if resp.err != nil {
			return nil, resp.err
		}
		return resp.data, nil
	}
}

// readLoop decodes server lines and routes them: objects with an
// "event" key go to the event channel, everything else answers the
// oldest pending request.
func (c *Client) readLoop() {
	reader := bufio.NewReader(c.conn)
	var readErr error

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			readErr = err
			break
		}

		var v map[string]any
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			logger.Warn("ipc client: undecodable line: %v", err)
			continue
		}

		if name, ok := v["event"].(string); ok {
			c.deliverEvent(name, v)
			continue
		}
		c.deliverReply(v)
	}

	c.mu.Lock()
	c.closed = true
	waiting := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, ch := range waiting {
		ch <- response{err: readErr}
	}
	close(c.events)
	c.Close()
}

func (c *Client) deliverEvent(name string, v map[string]any) {
	ev := Event{Name: name, Fields: v}
	if id, ok := v["id"].(json.Number); ok {
		ev.ID, _ = id.Int64()
	}
	if errText, ok := v["error"].(string); ok {
		ev.Err = errText
	}
	delete(v, "event")
	delete(v, "id")
	delete(v, "error")

	select {
	case c.events <- ev:
	default:
		logger.Warn("ipc client: event buffer full, dropping %q", name)
	}
}

func (c *Client) deliverReply(v map[string]any) {
	c.mu.Lock()
	var ch chan response
	if len(c.pending) > 0 {
		ch = c.pending[0]
		c.pending = c.pending[1:]
	}
	c.mu.Unlock()

	if ch == nil {
		logger.Warn("ipc client: unsolicited reply dropped")
		return
	}

	resp := response{}
	if data, ok := v["data"]; ok {
		resp.data = data
		resp.hasData = true
	}
	if status, ok := v["error"].(string); ok && status != "success" {
		resp.err = &ServerError{Status: status}
	}
	ch <- resp
}
