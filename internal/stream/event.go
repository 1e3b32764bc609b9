package stream

import (
	"context"
	"errors"
)

// ErrInvalidAddress is returned by dialers for addresses they cannot use.
var ErrInvalidAddress = errors.New("invalid address")

// State is the lifecycle state of a session's transport.
type State int

const (
	StateUnknown State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Live reports whether a transport is open or being opened.
func (s State) Live() bool {
	return s == StateConnecting || s == StateOpen
}

// EventKind identifies a transport notification.
type EventKind int

const (
	EventOpened EventKind = iota + 1
	EventMessage
	EventError
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventOpened:
		return "opened"
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Event is one notification from a transport. Conn is stamped by the
// session and identifies the connection attempt that produced it.
type Event struct {
	Conn uint64
	Kind EventKind
	Data string // EventMessage payload
	Err  error  // EventError cause
}

// Transport is one live connection.
type Transport interface {
	// Close requests teardown. EventClosed follows asynchronously.
	Close() error
}

// Dialer opens transports. Dial must not block: it returns as soon as the
// attempt is started and reports its progress through emit. An error return
// means the address is unusable and no events will follow.
type Dialer interface {
	Dial(ctx context.Context, address string, emit func(Event)) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, address string, emit func(Event)) (Transport, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, address string, emit func(Event)) (Transport, error) {
	return f(ctx, address, emit)
}
