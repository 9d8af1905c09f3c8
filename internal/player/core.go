// Package player implements an in-process player core: a typed property
// store, per-client property observation, a generic command table, and
// asynchronous event delivery. It is the control.Plane the IPC server
// binds to.
package player

import (
	"sync"
	"time"

	"github.com/avhost/playerd/internal/consts"
	"github.com/avhost/playerd/internal/control"
	"github.com/avhost/playerd/internal/logger"
)

// Core is the player core. One instance per process.
type Core struct {
	log *logger.Logger

	mu           sync.Mutex
	props        map[string]*property
	clients      map[*client]struct{}
	playlist     []string
	suspendCount int
	shuttingDown bool

	started  time.Time
	done     chan struct{}
	doneOnce sync.Once
}

// NewCore creates a player core with the default property set.
func NewCore() *Core {
	return &Core{
		log:     logger.Global().WithPrefix("player"),
		props:   defaultProperties(),
		clients: make(map[*client]struct{}),
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Done is closed when the core shuts down, either via Shutdown or a
// client-issued quit command.
func (co *Core) Done() <-chan struct{} {
	return co.done
}

// Shutdown stops the core. Every registered client receives a shutdown
// event on its queue; sessions notice it on their normal event-drain
// path and tear themselves down.
func (co *Core) Shutdown() {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.shutdownLocked()
}

func (co *Core) shutdownLocked() {
	if co.shuttingDown {
		return
	}
	co.shuttingDown = true
	for cl := range co.clients {
		cl.queueEventLocked(control.Event{Name: control.EventShutdown})
	}
	co.doneOnce.Do(func() { close(co.done) })
	co.log.Info("core shutting down (%d clients notified)", len(co.clients))
}

// NewClient registers a control-plane client under the given name.
func (co *Core) NewClient(name string) (control.Client, error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.shuttingDown {
		return nil, control.ErrUninitialized
	}

	cl := &client{
		core:         co,
		name:         name,
		events:       make(chan control.Event, consts.ClientEventQueueSize),
		observations: make(map[int64]observation),
	}
	co.clients[cl] = struct{}{}
	co.log.Debug("client %s registered (total: %d)", name, len(co.clients))
	return cl, nil
}

// EmitLog broadcasts a log-message event to all clients.
func (co *Core) EmitLog(prefix, level, text string) {
	co.broadcast(control.Event{
		Name: control.EventLogMessage,
		Data: control.LogMessage{Prefix: prefix, Level: level, Text: text},
	})
}

// EmitClientMessage broadcasts a client-message event to all clients.
func (co *Core) EmitClientMessage(args []string) {
	co.broadcast(control.Event{
		Name: control.EventClientMessage,
		Data: control.ClientMessage{Args: args},
	})
}

// EmitInputDispatch broadcasts a script-input-dispatch event.
func (co *Core) EmitInputDispatch(arg0 int64, typ string) {
	co.broadcast(control.Event{
		Name: control.EventInputDispatch,
		Data: control.InputDispatch{Arg0: arg0, Type: typ},
	})
}

func (co *Core) broadcast(ev control.Event) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.broadcastLocked(ev)
}

func (co *Core) broadcastLocked(ev control.Event) {
	for cl := range co.clients {
		cl.queueEventLocked(ev)
	}
}

// Suspended reports whether any client currently holds a suspend.
func (co *Core) Suspended() bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.suspendCount > 0
}

// observation is one property subscription held by a client.
type observation struct {
	name         string
	stringFormat bool
}

// client is the control.Client handle owned by one session. All state is
// guarded by the core mutex so event queueing and teardown cannot race.
type client struct {
	core         *Core
	name         string
	events       chan control.Event
	observations map[int64]observation
	closed       bool
}

func (c *client) Name() string {
	return c.name
}

func (c *client) TimeUS() int64 {
	return time.Since(c.core.started).Microseconds()
}

func (c *client) Events() <-chan control.Event {
	return c.events
}

func (c *client) Suspend() {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	c.core.suspendCount++
}

func (c *client) Resume() {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	if c.core.suspendCount > 0 {
		c.core.suspendCount--
	}
}

func (c *client) ObserveProperty(id int64, name string) error {
	return c.observe(id, name, false)
}

func (c *client) ObservePropertyString(id int64, name string) error {
	return c.observe(id, name, true)
}

func (c *client) observe(id int64, name string, stringFormat bool) error {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	c.observations[id] = observation{name: name, stringFormat: stringFormat}

	// Initial notification with the current value, like any later change.
	if p, ok := c.core.props[name]; ok {
		c.queueEventLocked(propertyChangeEvent(id, name, p, stringFormat))
	}
	return nil
}

func (c *client) UnobserveProperty(id int64) error {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	if _, ok := c.observations[id]; !ok {
		return control.ErrPropertyNotFound
	}
	delete(c.observations, id)
	return nil
}

// Close deregisters the client. Pending events are discarded; the queue
// channel is closed so a blocked reader cannot hang.
func (c *client) Close() {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	delete(c.core.clients, c)
	close(c.events)
	c.core.log.Debug("client %s deregistered (total: %d)", c.name, len(c.core.clients))
}

// queueEventLocked queues an event without blocking. A full queue drops
// ordinary events, matching the original queue-full behavior. A shutdown
// event is never dropped: the session relies on draining it to stop, so
// the oldest queued event is evicted to make room. Eviction is safe
// because every producer holds the core mutex; the consuming session can
// only make more room.
func (c *client) queueEventLocked(ev control.Event) {
	if c.closed {
		return
	}
	select {
	case c.events <- ev:
		return
	default:
	}

	if ev.Name != control.EventShutdown {
		c.core.log.Warn("client %s event queue full, dropping %q", c.name, ev.Name)
		return
	}

	select {
	case dropped := <-c.events:
		c.core.log.Warn("client %s event queue full, evicting %q for shutdown", c.name, dropped.Name)
	default:
	}
	select {
	case c.events <- ev:
	default:
	}
}
