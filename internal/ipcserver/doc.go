// Package ipcserver implements the player's JSON IPC socket: a local
// stream socket speaking one JSON value per newline-terminated line.
//
// Requests are objects of the form
//
//	{"command": ["<name>", <arg1>, ...]}
//
// and every request gets exactly one reply line, in request order:
//
//	{"data": <any>, "error": "<status>"}
//
// where "error" is always present and "success" means no error, and
// "data" is omitted when the command produced no result. Asynchronous
// events interleave between replies at any point:
//
//	{"event": "<name>", "id": <int, optional>, ...}
//
// A fixed table of built-in commands (client_name, get_time_us,
// get_property, get_property_string, set_property, set_property_string,
// observe_property, observe_property_string, unobserve_property,
// suspend, resume) is dispatched locally against the connection's
// control-plane handle; every other command name is forwarded verbatim
// to the control-plane's generic command executor.
//
// Concurrency: one goroutine accepts connections and one goroutine per
// connection runs the session loop, which multiplexes two sources with
// a single blocking wait: the control-plane event queue and socket
// reads. Malformed input produces an error reply and keeps the
// connection open; transport errors and the control-plane shutdown
// event tear down only the affected session.
package ipcserver
