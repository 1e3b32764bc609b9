// Package state holds the record buffer and subsystem registry for the
// current connection session.
//
// # Overview
//
// The stream session appends every received record to a Store. The UI and
// the headless printer read it back, run it through the filter pipeline and
// render the result. The Store is the only mutable data shared between the
// ingestion side and the presentation side.
//
// # Architecture
//
//	Producer (stream.Session):      Consumer (UI / printer):
//	┌──────────────────────┐        ┌──────────────────────┐
//	│ logline.Parse(raw)   │        │                      │
//	│        ↓             │        │                      │
//	│ store.Append(rec)    │───────→│ store.Snapshot()     │
//	│   ├─ buffer append   │(mutex) │        ↓             │
//	│   ├─ registry update │        │ filter.Apply(...)    │
//	│   └─ scroll request  │        │ store.ConsumeScroll()│
//	└──────────────────────┘        └──────────────────────┘
//
// # Core Types
//
// Store:
//   - Append-only record buffer, arrival order preserved, no dedup
//   - Owns the subsystem Registry and the autoscroll flag
//   - Clear (user action) keeps subsystems; Reset (new connection) drops them
//   - Epoch increases on every Clear or Reset
//
// Registry:
//   - Ordered set of subsystem tags in first-seen order
//   - Observe is idempotent
//
// Snapshot:
//   - Records, subsystems, epoch and autoscroll taken under one read lock
//
// # Snapshot Semantics
//
// Records and Snapshot return a slice that aliases the buffer but is capped
// at its current length. Append never writes inside that range and Clear
// replaces the backing array, so a snapshot stays valid and unchanged after
// later appends or clears without copying.
//
// # Autoscroll
//
// While autoscroll is enabled, each Append raises a scroll request. The
// presentation layer calls ConsumeScroll after rendering and moves to the
// newest record when it returns true. While disabled no request is raised
// and the scroll position is left alone.
package state
