package filter

import (
	"fmt"
	"strings"

	"github.com/five82/tdulog/internal/logline"
)

// PassthroughMode decides whether records without a known level survive the
// level predicate.
type PassthroughMode int

const (
	// PassthroughAtDebug shows unknown-level records only at the Debug
	// threshold, the one that narrows nothing.
	PassthroughAtDebug PassthroughMode = iota
	PassthroughAlways
	PassthroughNever
)

func (m PassthroughMode) String() string {
	switch m {
	case PassthroughAlways:
		return "always"
	case PassthroughNever:
		return "never"
	default:
		return "debug"
	}
}

// ParsePassthroughMode parses "debug", "always" or "never". Empty input
// yields the default.
func ParsePassthroughMode(s string) (PassthroughMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug":
		return PassthroughAtDebug, nil
	case "always":
		return PassthroughAlways, nil
	case "never":
		return PassthroughNever, nil
	default:
		return PassthroughAtDebug, fmt.Errorf("invalid passthrough mode %q", s)
	}
}

// Config is the user's current filter selection.
type Config struct {
	Level       logline.Level
	Subsystems  []string // empty means no restriction
	Search      string
	Passthrough PassthroughMode
}

// Default accepts every record.
func Default() Config {
	return Config{Level: logline.LevelDebug}
}

// threshold treats an unset level as Debug.
func (c Config) threshold() logline.Level {
	if !c.Level.Known() {
		return logline.LevelDebug
	}
	return c.Level
}

// Active reports whether any predicate narrows the view.
func (c Config) Active() bool {
	return c.threshold() != logline.LevelDebug || len(c.Subsystems) > 0 || c.Search != ""
}

// Match applies the level, subsystem and search predicates to rec.
func (c Config) Match(rec logline.Record) bool {
	return c.matchLevel(rec) && c.matchSubsystem(rec) && c.matchSearch(rec)
}

func (c Config) matchLevel(rec logline.Record) bool {
	if rec.Level.Known() {
		return rec.Level >= c.threshold()
	}
	switch c.Passthrough {
	case PassthroughAlways:
		return true
	case PassthroughNever:
		return false
	default:
		return c.threshold() == logline.LevelDebug
	}
}

// matchSubsystem uses substring containment against each active entry.
// Empty entries never match.
func (c Config) matchSubsystem(rec logline.Record) bool {
	if len(c.Subsystems) == 0 {
		return true
	}
	for _, active := range c.Subsystems {
		if active != "" && strings.Contains(rec.Subsystem, active) {
			return true
		}
	}
	return false
}

func (c Config) matchSearch(rec logline.Record) bool {
	if c.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.String()), strings.ToLower(c.Search))
}

// Apply returns the records accepted by cfg in their original order. The
// input slice is not modified.
func Apply(records []logline.Record, cfg Config) []logline.Record {
	out := make([]logline.Record, 0, len(records))
	for _, rec := range records {
		if cfg.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// HasSubsystem reports whether name is in the active set.
func (c Config) HasSubsystem(name string) bool {
	for _, s := range c.Subsystems {
		if s == name {
			return true
		}
	}
	return false
}

// WithSubsystem returns a copy of c with name added to or removed from the
// active set.
func (c Config) WithSubsystem(name string, on bool) Config {
	next := make([]string, 0, len(c.Subsystems)+1)
	for _, s := range c.Subsystems {
		if s != name {
			next = append(next, s)
		}
	}
	if on {
		next = append(next, name)
	}
	if len(next) == 0 {
		next = nil
	}
	c.Subsystems = next
	return c
}
