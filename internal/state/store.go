package state

import (
	"sync"

	"github.com/five82/tdulog/internal/logline"
)

// Snapshot is a consistent view of the store at one point in time.
type Snapshot struct {
	Records    []logline.Record
	Subsystems []string
	Epoch      uint64 // bumped by Clear and Reset
	Autoscroll bool
}

// Store is the record buffer for one connection session together with its
// subsystem registry and autoscroll controller.
//
// Records are append-only between clears. Clear and Reset drop the backing
// array instead of truncating it, so slices handed out by Records and
// Snapshot are never written to again and need no copy.
type Store struct {
	mu            sync.RWMutex
	records       []logline.Record
	registry      Registry
	epoch         uint64
	autoscroll    bool
	scrollPending bool
}

// NewStore returns an empty store with autoscroll set as given.
func NewStore(autoscroll bool) *Store {
	return &Store{autoscroll: autoscroll}
}

// Append adds rec to the end of the buffer, registers its subsystem and,
// when autoscroll is on, requests a scroll to the newest record. It reports
// whether the subsystem was new.
func (s *Store) Append(rec logline.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	added := false
	if rec.Parsed {
		added = s.registry.Observe(rec.Subsystem)
	}
	if s.autoscroll {
		s.scrollPending = true
	}
	return added
}

// Clear empties the buffer. Observed subsystems are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.scrollPending = false
	s.epoch++
}

// Reset empties the buffer and the subsystem registry. It is called when a
// new connection attempt starts.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.registry.Reset()
	s.scrollPending = false
	s.epoch++
}

// Records returns every record appended since the last clear, in arrival
// order. The caller must not modify the returned slice.
func (s *Store) Records() []logline.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[:len(s.records):len(s.records)]
}

// Len returns the number of buffered records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Epoch identifies the current buffer generation.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Subsystems returns the observed subsystems in first-seen order.
func (s *Store) Subsystems() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.List()
}

// Snapshot returns the records, subsystems and flags under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Records:    s.records[:len(s.records):len(s.records)],
		Subsystems: s.registry.List(),
		Epoch:      s.epoch,
		Autoscroll: s.autoscroll,
	}
}

// SetAutoscroll turns autoscroll on or off. Turning it off drops any pending
// scroll request.
func (s *Store) SetAutoscroll(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.autoscroll = on
	if !on {
		s.scrollPending = false
	}
}

// Autoscroll reports whether the view should follow the newest record.
func (s *Store) Autoscroll() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoscroll
}

// ConsumeScroll reports whether a scroll to the newest record was requested
// since the last call, and clears the request.
func (s *Store) ConsumeScroll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.scrollPending
	s.scrollPending = false
	return pending
}
