// Package filter implements the record filter pipeline.
//
// A Config combines three predicates that are ANDed together:
//
//   - Level: known levels pass when at or above the threshold in the order
//     Debug < Info < Warning < Error. Records without a known level follow
//     the PassthroughMode (by default they only show at Debug).
//   - Subsystems: an empty set accepts everything; otherwise a record passes
//     when any active entry is a substring of its subsystem.
//   - Search: case-insensitive substring match on the rendered line.
//
// Apply never reorders or modifies its input. Values, Encode, FromValues and
// Decode mirror a Config to and from the searchFilter, loglevel and
// subsystems query parameters so callers can persist or share a view.
package filter
