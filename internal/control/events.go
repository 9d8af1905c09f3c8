package control

// Event names delivered on client event queues.
const (
	EventShutdown       = "shutdown"
	EventLogMessage     = "log-message"
	EventStartFile      = "start-file"
	EventEndFile        = "end-file"
	EventFileLoaded     = "file-loaded"
	EventIdle           = "idle"
	EventPause          = "pause"
	EventUnpause        = "unpause"
	EventInputDispatch  = "script-input-dispatch"
	EventClientMessage  = "client-message"
	EventPropertyChange = "property-change"
)

// Event is one asynchronous notification queued for a client. It is
// write-once: built by the control-plane, consumed by the session that
// encodes it onto the wire.
type Event struct {
	// Name is the event name, e.g. "property-change".
	Name string
	// ID is the caller-supplied observation id the event correlates to,
	// 0 when the event has no correlation.
	ID int64
	// Err is set when the event itself reports an error condition.
	Err error
	// Data is the event-type-specific payload, nil for bare events.
	Data EventData
}

// EventData is the closed set of per-event-type payloads.
type EventData interface {
	eventData()
}

// LogMessage is the payload of a "log-message" event.
type LogMessage struct {
	Prefix string
	Level  string
	Text   string
}

// InputDispatch is the payload of a "script-input-dispatch" event.
type InputDispatch struct {
	Arg0 int64
	Type string
}

// ClientMessage is the payload of a "client-message" event.
type ClientMessage struct {
	Args []string
}

// PropertyChange is the payload of a "property-change" event. Value is
// nil when the property value is unrepresentable in the registered
// format.
type PropertyChange struct {
	Name  string
	Value any
}

func (LogMessage) eventData()     {}
func (InputDispatch) eventData()  {}
func (ClientMessage) eventData()  {}
func (PropertyChange) eventData() {}
