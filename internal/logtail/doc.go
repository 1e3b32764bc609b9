// Package logtail reads log files as a stream source.
//
// # Overview
//
// Read returns the last N lines of a file using a ring buffer, so memory is
// bounded by N rather than by the file size. Follow then watches the file
// with fsnotify and hands over every complete line appended afterwards.
// Together they back the file:// addresses accepted by Dialer, which makes a
// saved log or a log that is still being written look like a live emitter
// to the rest of the program.
//
// # Reading
//
//	lines, err := logtail.Read("/var/log/robot.log", 400)
//
// A maxLines of zero or less returns the whole file. A missing file returns
// no lines and no error. Trailing carriage returns are dropped.
//
// # Following
//
// Follow starts at a byte offset (normally where the initial read stopped)
// and keeps a partial-line buffer so a line written in several chunks is
// emitted once. It handles the usual log-writer behaviour:
//
//   - append: new complete lines are emitted in order
//   - truncate: reading restarts at offset 0
//   - remove or rename: any buffered partial line is flushed and Follow
//     returns nil
//
// # Dialer
//
// Dialer implements stream.Dialer for file://<path>. The event sequence is
// opened, one message per replayed line, then closed, or with Follow set,
// messages until the file disappears or the transport is closed. Read and
// watch failures surface as an error event before closed.
package logtail
