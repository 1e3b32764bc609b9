// Package ui provides the terminal user interface for tdulog.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns the view state (theme, window
// size, overlays, the filter selection) and drives a stream.Session, which
// in turn owns the transport and feeds the shared state.Store. All session
// calls happen inside Update, so the session is only ever touched from the
// program's goroutine.
//
// # Package Structure
//
//   - app.go: Model, Update/View, connection toggle, event batching and Run
//   - logs.go: Log pane rendering with an incremental render cache
//   - header.go: Status header, command bar and window title
//   - settings.go: Settings panel (address, level, search, autoscroll, clear, subsystems)
//   - help.go: Help overlay generated from the key map
//   - keys.go: Key bindings
//   - theme.go: Color themes and level colors
//   - style_helpers.go: Background-aware rendering helpers
//
// # Event Flow
//
//  1. Init starts waitForEvents on the session's event channel
//  2. Transport events arrive in batches as eventsMsg
//  3. Each event goes through Session.Handle; errors become notices
//  4. The log pane renders the records appended since the last batch
//  5. waitForEvents is re-armed for the next batch
//
// # Rendering
//
// The store only grows between clears, so the log pane keeps the rendered
// lines of records it has already filtered and only formats new ones. A
// filter change, theme change, clear or reconnect marks the cache stale and
// the next update renders from scratch. When autoscroll is on, each batch
// that appended a record scrolls the pane to the bottom.
//
// # Key Bindings
//
//   - c: Connect, or disconnect when open or still connecting
//   - /: Search (live; Enter keeps it, Esc restores the previous term)
//   - l: Cycle the minimum level
//   - o or s: Settings panel
//   - a or Space: Toggle autoscroll
//   - x: Clear messages (subsystems are kept)
//   - y: Copy the current filter as a query string
//   - T: Cycle theme
//   - ? or h: Help
//   - q or Ctrl+C: Quit
package ui
