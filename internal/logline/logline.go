package logline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidLevel is returned by ParseLevel for unrecognised level names.
var ErrInvalidLevel = errors.New("invalid log level")

// Level is a record severity. The zero value is LevelUnknown.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
)

// Levels lists the known levels in ascending severity.
var Levels = []Level{LevelDebug, LevelInfo, LevelWarning, LevelError}

// String returns the wire label for the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "Debug"
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Query returns the lowercase form used in query strings and config files.
func (l Level) Query() string {
	return strings.ToLower(l.String())
}

// Known reports whether l is one of the four ordered levels.
func (l Level) Known() bool {
	return l >= LevelDebug && l <= LevelError
}

// Next cycles Debug → Info → Warning → Error → Debug.
func (l Level) Next() Level {
	if !l.Known() || l == LevelError {
		return LevelDebug
	}
	return l + 1
}

// LevelOf maps a wire label to a level. Matching is exact and case-sensitive.
func LevelOf(label string) Level {
	switch label {
	case "Debug":
		return LevelDebug
	case "Info":
		return LevelInfo
	case "Warning":
		return LevelWarning
	case "Error":
		return LevelError
	default:
		return LevelUnknown
	}
}

// ParseLevel parses a user-supplied level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelUnknown, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Record is one line received from the log stream.
type Record struct {
	Timestamp string
	Label     string // level text as received
	Subsystem string
	Body      string
	Level     Level

	// Raw is only set for passthrough records.
	Raw    string
	Parsed bool
}

// Passthrough reports whether the line failed structured parsing.
func (r Record) Passthrough() bool {
	return !r.Parsed
}

// String renders the record as it appeared on the wire.
func (r Record) String() string {
	if !r.Parsed {
		return r.Raw
	}
	return r.Timestamp + " (" + r.Label + ") [" + r.Subsystem + "] " + r.Body
}

// `[^]` in the emitter's pattern matches any character, newlines included.
var linePattern = regexp.MustCompile(`^([0-9.]+) \((.+)\) \[((?s:.+))\] ((?s:.*))`)

// Parse turns one raw line into a record. Lines that do not fit
// `<timestamp> (<level>) [<subsystem>] <body>` come back as passthrough
// records carrying the original text.
func Parse(line string) Record {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Record{Raw: line, Level: LevelUnknown}
	}
	return Record{
		Timestamp: m[1],
		Label:     m[2],
		Subsystem: m[3],
		Body:      m[4],
		Level:     LevelOf(m[2]),
		Parsed:    true,
	}
}
