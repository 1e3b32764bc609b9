// Package stream implements the connection state machine that turns a
// transport's notifications into buffered records.
//
// # States
//
//	Unknown ──Connect──> Connecting ──opened──> Open
//	                        │                    │
//	                        ├──error──> Error <──┤
//	                        └──closed─> Closed <─┘
//
//	Closed / Error ──Connect──> Connecting
//
// There is no automatic reconnect and no handshake timeout in the machine
// itself; only an explicit Connect leaves Closed or Error.
//
// # Events
//
// Transports report through four event kinds: opened, message, error and
// closed. A Dialer starts a transport without blocking and hands every
// notification to the emit function it was given. The Session stamps each
// event with the generation of the connection attempt, queues it on the
// Events channel, and the owner of the session passes it back to Handle.
//
// # Single Owner
//
// Connect, Disconnect and Handle run on one goroutine. In the TUI that is
// the bubbletea Update loop; headless commands run their own loop. Only
// transport goroutines write to the Events channel.
//
// # One Live Transport
//
// Connect closes the previous transport before dialing and bumps the
// generation. Events carrying an older generation are reported as Stale and
// never touch the store, so two transports cannot interleave records.
//
// # Effects
//
//   - Connect: Store.Reset (records and subsystems), dial, Connecting
//   - opened: Open
//   - message: logline.Parse, Store.Append (registry, autoscroll)
//   - error: Error and one Notice per transport; records kept
//   - closed: Closed (Error stays Error); records kept
//   - Disconnect: Close the live transport; closed follows
//
// # Testing
//
// Inject a Dialer that returns a fake Transport and call its emit function
// directly. No network is needed to drive every transition.
package stream
