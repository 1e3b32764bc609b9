// Package logline parses the emitter's wire format into records.
//
// # Wire Format
//
// Every text message is one line:
//
//	<timestamp> (<level>) [<subsystem>] <body>
//
// The timestamp is a run of digits and dots and is kept as text. The level
// label is compared against the exact words Debug, Info, Warning and Error;
// any other label yields LevelUnknown while the record stays structured.
//
// # Passthrough
//
// Lines that do not match are never dropped. Parse returns them as
// passthrough records whose Raw field holds the original text and whose
// level is LevelUnknown. Filtering decides whether they are shown.
//
// # Round Trip
//
// For every well-formed line, Parse(line).String() == line.
package logline
