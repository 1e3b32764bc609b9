package stream

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/five82/tdulog/internal/logging"
	"github.com/five82/tdulog/internal/logline"
	"github.com/five82/tdulog/internal/state"
)

const defaultEventBuffer = 256

// Outcome describes what a Connect or Handle call changed.
type Outcome struct {
	Stale   bool            // the event belonged to a replaced transport
	State   State           // state after the call
	Changed bool            // state differs from before the call
	Record  *logline.Record // record appended by a message event
	Notice  error           // one-shot user notification
}

// Session is the connection state machine. It owns at most one live
// transport and feeds its messages into the store.
//
// Connect, Disconnect and Handle must be called from a single goroutine,
// the one draining Events.
type Session struct {
	dialer Dialer
	store  *state.Store
	logger *log.Logger
	events chan Event

	state    State
	gen      uint64
	conn     Transport
	address  string
	id       string
	errored  bool
	received int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBuffer sets the capacity of the event channel.
func WithEventBuffer(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.events = make(chan Event, n)
		}
	}
}

// NewSession returns a session in StateUnknown.
func NewSession(dialer Dialer, store *state.Store, opts ...Option) *Session {
	s := &Session{
		dialer: dialer,
		store:  store,
		logger: logging.Discard(),
		events: make(chan Event, defaultEventBuffer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events delivers transport notifications in arrival order.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Address returns the address of the latest connection attempt.
func (s *Session) Address() string {
	return s.address
}

// ID returns the identifier of the latest connection attempt.
func (s *Session) ID() string {
	return s.id
}

// Store returns the record store fed by this session.
func (s *Session) Store() *state.Store {
	return s.store
}

// Connect starts a new connection attempt. Any live transport is closed
// first and its remaining events are ignored. The buffer and the subsystem
// registry are cleared.
func (s *Session) Connect(ctx context.Context, address string) Outcome {
	prev := s.state
	if s.conn != nil {
		s.closeTransport()
	}

	s.gen++
	s.id = uuid.NewString()
	s.address = address
	s.errored = false
	s.received = 0
	s.store.Reset()
	s.state = StateConnecting

	s.logger.Info().Str("session", s.id).Str("addr", address).Msg("connecting")

	conn, err := s.dialer.Dial(ctx, address, s.emitter(ctx, s.gen))
	if err != nil {
		s.state = StateError
		s.errored = true
		s.logger.Warn().Str("session", s.id).Str("addr", address).Err(err).Msg("dial failed")
		return Outcome{State: s.state, Changed: s.state != prev, Notice: fmt.Errorf("connect %s: %w", address, err)}
	}
	s.conn = conn
	return Outcome{State: s.state, Changed: s.state != prev}
}

// Disconnect requests teardown of the live transport. The state changes when
// the closed event arrives.
func (s *Session) Disconnect() {
	if s.conn == nil || !s.state.Live() {
		return
	}
	s.logger.Info().Str("session", s.id).Msg("disconnect requested")
	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Str("session", s.id).Err(err).Msg("close transport")
	}
}

// Handle processes one event to completion.
func (s *Session) Handle(ev Event) Outcome {
	if ev.Conn != s.gen || s.gen == 0 {
		s.logger.Debug().Uint64("conn", ev.Conn).Str("kind", ev.Kind.String()).Msg("dropping stale event")
		return Outcome{Stale: true, State: s.state}
	}

	prev := s.state
	out := Outcome{}

	switch ev.Kind {
	case EventOpened:
		if s.state == StateConnecting {
			s.state = StateOpen
			s.logger.Info().Str("session", s.id).Str("addr", s.address).Msg("connected")
		}
	case EventMessage:
		rec := logline.Parse(ev.Data)
		s.store.Append(rec)
		s.received++
		out.Record = &rec
	case EventError:
		s.state = StateError
		if !s.errored {
			s.errored = true
			out.Notice = ev.Err
			if out.Notice == nil {
				out.Notice = fmt.Errorf("connection to %s failed", s.address)
			}
			s.logger.Warn().Str("session", s.id).Str("addr", s.address).Err(ev.Err).Msg("transport error")
		}
	case EventClosed:
		// An error already describes how this transport ended.
		if !s.errored {
			s.state = StateClosed
		}
		s.conn = nil
		s.logger.Info().Str("session", s.id).Int("records", s.received).Str("state", s.state.String()).Msg("connection closed")
	}

	out.State = s.state
	out.Changed = s.state != prev
	return out
}

func (s *Session) closeTransport() {
	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Str("session", s.id).Err(err).Msg("close previous transport")
	}
	s.conn = nil
}

// emitter stamps events with the attempt's generation. Sends block while the
// channel is full so no message is lost; they give up once ctx is done.
func (s *Session) emitter(ctx context.Context, gen uint64) func(Event) {
	events := s.events
	return func(ev Event) {
		ev.Conn = gen
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}
}
