// Package solver drives an external optalcp solver process or service
// through the wire protocol in internal/wire: it discovers the solver
// endpoint, speaks the handshake, streams a solve/propagate/toText/toJS
// request, and dispatches the resulting event stream back to caller
// callbacks (spec.md §4.10).
package solver

import "context"

// TransportCallbacks are invoked by a Transport as it runs. OnMessage
// fires once per complete line the solver sends. OnWarning fires for
// text the transport can tell is diagnostic chatter rather than a
// protocol message (a child process's stderr). OnError reports a
// transport-level problem that does not by itself mean the session is
// over. OnClose fires exactly once, when the transport is fully done
// and will deliver no further messages; a non-nil error means it ended
// abnormally (spec.md §4.10.1).
type TransportCallbacks struct {
	OnMessage func(line []byte)
	OnWarning func(text string)
	OnError   func(err error)
	OnClose   func(err error)
}

// Transport is the session's connection to a solver, either a spawned
// child process speaking newline-delimited JSON over stdio, or a
// websocket to a running solver service (spec.md §4.10.1, §6.5).
type Transport interface {
	// Start connects the transport and begins invoking its callbacks.
	// It returns once the connection is established (or failed) — the
	// callbacks it registered at construction continue firing on their
	// own goroutine(s) afterward.
	Start(ctx context.Context) error

	// Send writes one line (without its trailing newline) to the
	// solver. It is safe to call from any goroutine.
	Send(line []byte) error

	// Close tears the transport down and blocks until OnClose has
	// fired, returning the same error OnClose reported.
	Close() error
}
