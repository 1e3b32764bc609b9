package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/state"
)

// fakeTransport records Close calls and lets tests inject events through the
// emit function handed to the dialer.
type fakeTransport struct {
	emit   func(Event)
	closed int
}

func (f *fakeTransport) Close() error {
	f.closed++
	return nil
}

func (f *fakeTransport) send(kind EventKind, data string, err error) {
	f.emit(Event{Kind: kind, Data: data, Err: err})
}

type fakeDialer struct {
	dialed []string
	conns  []*fakeTransport
	err    error
}

func (d *fakeDialer) Dial(_ context.Context, address string, emit func(Event)) (Transport, error) {
	d.dialed = append(d.dialed, address)
	if d.err != nil {
		return nil, d.err
	}
	conn := &fakeTransport{emit: emit}
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) last() *fakeTransport {
	return d.conns[len(d.conns)-1]
}

func newTestSession(t *testing.T) (*Session, *fakeDialer, *state.Store) {
	t.Helper()
	dialer := &fakeDialer{}
	store := state.NewStore(true)
	return NewSession(dialer, store), dialer, store
}

// drain handles every queued event and returns the outcomes.
func drain(t *testing.T, s *Session) []Outcome {
	t.Helper()
	var out []Outcome
	for {
		select {
		case ev := <-s.Events():
			out = append(out, s.Handle(ev))
		default:
			return out
		}
	}
}

func TestSession_InitialState(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.Equal(t, StateUnknown, s.State())
	assert.Empty(t, s.Address())
}

func TestSession_ConnectOpenMessageClose(t *testing.T) {
	s, dialer, store := newTestSession(t)
	ctx := context.Background()

	out := s.Connect(ctx, "robot.local")
	assert.Equal(t, StateConnecting, out.State)
	assert.True(t, out.Changed)
	assert.Equal(t, []string{"robot.local"}, dialer.dialed)
	assert.NotEmpty(t, s.ID())

	conn := dialer.last()
	conn.send(EventOpened, "", nil)
	conn.send(EventMessage, "12345.678 (Info) [Net] connected", nil)
	conn.send(EventMessage, "garbage text", nil)

	outs := drain(t, s)
	require.Len(t, outs, 3)
	assert.Equal(t, StateOpen, outs[0].State)
	assert.True(t, outs[0].Changed)
	require.NotNil(t, outs[1].Record)
	assert.Equal(t, "Net", outs[1].Record.Subsystem)
	require.NotNil(t, outs[2].Record)
	assert.True(t, outs[2].Record.Passthrough())
	assert.False(t, outs[2].Changed)

	assert.Equal(t, []string{"Net"}, store.Subsystems())
	assert.Equal(t, 2, store.Len())
	assert.True(t, store.ConsumeScroll())

	visible := filter.Apply(store.Records(), filter.Default())
	require.Len(t, visible, 2)
	assert.Equal(t, "12345.678 (Info) [Net] connected", visible[0].String())

	conn.send(EventClosed, "", nil)
	outs = drain(t, s)
	require.Len(t, outs, 1)
	assert.Equal(t, StateClosed, outs[0].State)
	assert.Nil(t, outs[0].Notice)
	assert.Equal(t, 2, store.Len(), "close keeps records")
}

func TestSession_ErrorNotifiesOnceAndKeepsBuffer(t *testing.T) {
	s, dialer, store := newTestSession(t)
	s.Connect(context.Background(), "robot.local")

	conn := dialer.last()
	conn.send(EventOpened, "", nil)
	conn.send(EventMessage, "1 (Error) [Drive] stalled", nil)
	boom := errors.New("connection reset by peer")
	conn.send(EventError, "", boom)
	conn.send(EventError, "", boom)
	conn.send(EventClosed, "", nil)

	outs := drain(t, s)
	require.Len(t, outs, 5)

	assert.Equal(t, StateError, outs[2].State)
	assert.ErrorIs(t, outs[2].Notice, boom)
	assert.Nil(t, outs[3].Notice, "second error must not notify again")
	assert.Equal(t, StateError, outs[4].State, "closed after error keeps the error state")
	assert.Nil(t, outs[4].Notice)

	assert.Equal(t, StateError, s.State())
	assert.Equal(t, 1, store.Len())
}

func TestSession_ErrorWithoutCauseStillNotifies(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	s.Connect(context.Background(), "robot.local")
	dialer.last().send(EventError, "", nil)

	outs := drain(t, s)
	require.Len(t, outs, 1)
	require.Error(t, outs[0].Notice)
	assert.Contains(t, outs[0].Notice.Error(), "robot.local")
}

func TestSession_DialErrorMovesToError(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	dialer.err = ErrInvalidAddress

	out := s.Connect(context.Background(), "::bad::")
	assert.Equal(t, StateError, out.State)
	assert.ErrorIs(t, out.Notice, ErrInvalidAddress)
	assert.Equal(t, StateError, s.State())

	// A later connect recovers.
	dialer.err = nil
	out = s.Connect(context.Background(), "robot.local")
	assert.Equal(t, StateConnecting, out.State)
	assert.Nil(t, out.Notice)
}

func TestSession_ReconnectResetsAndIgnoresStaleTransport(t *testing.T) {
	s, dialer, store := newTestSession(t)
	ctx := context.Background()

	s.Connect(ctx, "first")
	first := dialer.last()
	first.send(EventOpened, "", nil)
	first.send(EventMessage, "1 (Info) [Old] before", nil)
	drain(t, s)
	require.Equal(t, []string{"Old"}, store.Subsystems())

	s.Connect(ctx, "second")
	assert.Equal(t, 1, first.closed, "prior transport closed before reconnect")
	assert.Equal(t, StateConnecting, s.State())
	assert.Zero(t, store.Len())
	assert.Empty(t, store.Subsystems())

	// Late events from the first transport must not reach the buffer.
	first.send(EventMessage, "2 (Info) [Old] late", nil)
	first.send(EventClosed, "", nil)
	second := dialer.last()
	second.send(EventOpened, "", nil)
	second.send(EventMessage, "3 (Info) [New] fresh", nil)

	outs := drain(t, s)
	require.Len(t, outs, 4)
	assert.True(t, outs[0].Stale)
	assert.True(t, outs[1].Stale)
	assert.False(t, outs[2].Stale)
	assert.Equal(t, StateOpen, s.State())
	assert.Equal(t, []string{"New"}, store.Subsystems())
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "fresh", store.Records()[0].Body)
}

func TestSession_ReconnectAfterCloseNeedsExplicitConnect(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	s.Connect(context.Background(), "robot.local")
	dialer.last().send(EventOpened, "", nil)
	dialer.last().send(EventClosed, "", nil)
	drain(t, s)

	assert.Equal(t, StateClosed, s.State())
	assert.Len(t, dialer.dialed, 1, "no automatic reconnect")

	s.Connect(context.Background(), "robot.local")
	assert.Equal(t, StateConnecting, s.State())
	assert.Len(t, dialer.dialed, 2)
}

func TestSession_Disconnect(t *testing.T) {
	s, dialer, _ := newTestSession(t)

	s.Disconnect() // no transport yet
	s.Connect(context.Background(), "robot.local")
	conn := dialer.last()

	s.Disconnect()
	assert.Equal(t, 1, conn.closed)
	assert.Equal(t, StateConnecting, s.State(), "state changes on the closed event")

	conn.send(EventClosed, "", nil)
	drain(t, s)
	assert.Equal(t, StateClosed, s.State())

	s.Disconnect()
	assert.Equal(t, 1, conn.closed, "no transport to close after Closed")
}

func TestSession_AutoscrollOnlyWhenEnabled(t *testing.T) {
	s, dialer, store := newTestSession(t)
	store.SetAutoscroll(false)

	s.Connect(context.Background(), "robot.local")
	dialer.last().send(EventMessage, "1 (Info) [A] x", nil)
	drain(t, s)
	assert.False(t, store.ConsumeScroll())

	store.SetAutoscroll(true)
	dialer.last().send(EventMessage, "2 (Info) [A] y", nil)
	drain(t, s)
	assert.True(t, store.ConsumeScroll())
}

func TestSession_EventsBeforeConnectAreStale(t *testing.T) {
	s, _, _ := newTestSession(t)
	out := s.Handle(Event{Kind: EventOpened})
	assert.True(t, out.Stale)
	assert.Equal(t, StateUnknown, s.State())
}

func TestSession_EmitterStopsWhenContextDone(t *testing.T) {
	dialer := &fakeDialer{}
	s := NewSession(dialer, state.NewStore(false), WithEventBuffer(1))
	ctx, cancel := context.WithCancel(context.Background())

	s.Connect(ctx, "robot.local")
	conn := dialer.last()
	conn.send(EventMessage, "1 (Info) [A] fills the buffer", nil)

	done := make(chan struct{})
	go func() {
		conn.send(EventMessage, "2 (Info) [A] blocks", nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit did not return after context cancellation")
	}
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "error", StateError.String())
	assert.True(t, StateOpen.Live())
	assert.False(t, StateError.Live())
	assert.Equal(t, "message", EventMessage.String())
}
