// Package control defines the player control-plane surface the IPC
// subsystem talks to: per-connection client handles, the property and
// command entry points, the asynchronous event model, and the status
// codes whose string forms appear in every reply.
//
// Generic JSON values pass through as the tagged value tree encoding/json
// produces with json.Number enabled: nil, bool, json.Number, string,
// []any and map[string]any.
package control

// Plane registers control-plane clients. The player core implements it;
// the IPC listener calls it once per accepted connection.
type Plane interface {
	// NewClient registers a client handle under the given name. It fails
	// once the core is shutting down.
	NewClient(name string) (Client, error)
}

// Client is one registered control-plane handle, owned by exactly one
// session. All methods are safe for use from that session's goroutine
// concurrently with the core's own threads. Events() is the wakeup
// channel: receiving from it is the only blocking operation a session
// multiplexes alongside its socket.
type Client interface {
	// Name returns the name the client was registered under.
	Name() string

	// TimeUS returns the core's monotonic clock in microseconds.
	TimeUS() int64

	// GetProperty returns a property value as a generic value tree.
	GetProperty(name string) (any, error)

	// GetPropertyString returns a property value formatted as a string,
	// or nil when the property cannot be read. It never fails.
	GetPropertyString(name string) any

	// SetProperty sets a property from a generic value tree.
	SetProperty(name string, value any) error

	// SetPropertyString sets a property from its string form.
	SetPropertyString(name, value string) error

	// ObserveProperty registers a property-change subscription under a
	// caller-supplied id; change events carry the value as a value tree.
	ObserveProperty(id int64, name string) error

	// ObservePropertyString is ObserveProperty with string-formatted
	// change values.
	ObservePropertyString(id int64, name string) error

	// UnobserveProperty drops the subscription registered under id.
	UnobserveProperty(id int64) error

	// Suspend pauses core playback processing; calls nest.
	Suspend()

	// Resume undoes one Suspend.
	Resume()

	// Command executes a generic command. args holds the command name
	// followed by its arguments. The result value may be nil.
	Command(args []any) (any, error)

	// Events returns the client's event queue. The channel is closed
	// only after Close; a shutdown-class event, not channel closure,
	// tells the session to stop.
	Events() <-chan Event

	// Close deregisters the client and releases its queue. The owning
	// session calls it exactly once during teardown.
	Close()
}
