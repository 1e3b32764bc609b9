// Package app provides the orchestration layer for tdulog.
//
// # Overview
//
// This package wires together configuration, the transports, the session
// state machine and the UI. It is the composition root for both the TUI and
// the headless commands.
//
// # Components
//
//   - app.go: Run, which boots the TUI with a file logger
//   - resolve.go: Resolve, which layers command-line overrides over the config file
//   - dialer.go: NewDialer, which routes file:// addresses to logtail and the rest to the websocket transport
//   - tail.go: Tail, the headless loop behind the tail and replay commands
//
// # Configuration Order
//
//	defaults -> config file -> flags -> --query
//
// The query string uses the same parameters the share key copies, so a
// filter set up in the TUI can be handed to a headless run.
//
// # Address Selection (TUI)
//
//  1. The command-line argument, dialed immediately
//  2. The last address used, remembered in prefs
//  3. The config file address
//
// Only the first is connected on startup; the others wait for the connect
// key.
//
// # Headless Exit Status
//
// Tail returns nil when the source closes cleanly or the context is
// cancelled. When the transport fails it prints the notice to stderr and
// returns an error wrapping ErrTransport once the closed event arrives.
// Addresses that cannot be dialed at all fail immediately.
package app
