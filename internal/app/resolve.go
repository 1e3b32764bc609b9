package app

import (
	"fmt"
	"strings"

	"github.com/five82/tdulog/internal/config"
	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/logline"
)

// Overrides are command-line settings layered over the config file. Empty
// fields leave the config value alone.
type Overrides struct {
	Level        string
	Subsystems   string // comma-separated
	Search       string
	Passthrough  string
	Query        string // URL query form, applied last
	NoAutoscroll bool

	// Replay settings for file sources. Nil Lines leaves the config value.
	Lines  *int
	Follow bool
}

// Resolve loads the config at path and applies o. The order is defaults,
// config file, flags, then the query string.
func Resolve(path string, o Overrides) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if raw := strings.TrimSpace(o.Level); raw != "" {
		level, err := logline.ParseLevel(raw)
		if err != nil {
			return config.Config{}, fmt.Errorf("--level: %w", err)
		}
		cfg.Filter.Level = level
	}
	if raw := strings.TrimSpace(o.Subsystems); raw != "" {
		cfg.Filter.Subsystems = filter.SplitSubsystems(raw)
	}
	if o.Search != "" {
		cfg.Filter.Search = o.Search
	}
	if raw := strings.TrimSpace(o.Passthrough); raw != "" {
		mode, err := filter.ParsePassthroughMode(raw)
		if err != nil {
			return config.Config{}, fmt.Errorf("--passthrough: %w", err)
		}
		cfg.Filter.Passthrough = mode
	}
	if o.NoAutoscroll {
		cfg.Autoscroll = false
	}
	if o.Lines != nil {
		if *o.Lines < 0 {
			return config.Config{}, fmt.Errorf("--lines: must not be negative")
		}
		cfg.Replay.Lines = *o.Lines
	}
	if o.Follow {
		cfg.Replay.Follow = true
	}
	if q := strings.TrimSpace(o.Query); q != "" {
		decoded, err := filter.Decode(cfg.Filter, q)
		if err != nil {
			return config.Config{}, fmt.Errorf("--query: %w", err)
		}
		cfg.Filter = decoded
	}
	return cfg, nil
}
