package filter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/five82/tdulog/internal/logline"
)

// Query parameter names shared with bookmarked views.
const (
	ParamSearch     = "searchFilter"
	ParamLevel      = "loglevel"
	ParamSubsystems = "subsystems"
)

// Values encodes c as query parameters. Empty fields are omitted.
func (c Config) Values() url.Values {
	values := url.Values{}
	if c.Search != "" {
		values.Set(ParamSearch, c.Search)
	}
	values.Set(ParamLevel, c.threshold().Query())
	if len(c.Subsystems) > 0 {
		values.Set(ParamSubsystems, strings.Join(c.Subsystems, ","))
	}
	return values
}

// Encode returns c as a query string.
func (c Config) Encode() string {
	return c.Values().Encode()
}

// FromValues builds a config from query parameters, starting from base.
// Unknown level names leave base.Level untouched.
func FromValues(base Config, values url.Values) Config {
	cfg := base
	if values.Has(ParamSearch) {
		cfg.Search = values.Get(ParamSearch)
	}
	if raw := values.Get(ParamLevel); raw != "" {
		if level, err := logline.ParseLevel(raw); err == nil {
			cfg.Level = level
		}
	}
	if values.Has(ParamSubsystems) {
		cfg.Subsystems = SplitSubsystems(values.Get(ParamSubsystems))
	}
	return cfg
}

// Decode parses a query string (with or without a leading "?") on top of
// base. Unlike FromValues it rejects unknown level names.
func Decode(base Config, query string) (Config, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(query), "?"))
	if err != nil {
		return base, fmt.Errorf("parse filter query: %w", err)
	}
	if raw := values.Get(ParamLevel); raw != "" {
		if _, err := logline.ParseLevel(raw); err != nil {
			return base, fmt.Errorf("parse filter query: %w", err)
		}
	}
	return FromValues(base, values), nil
}

// SplitSubsystems parses a comma-joined subsystem list as used on the
// command line and in query strings. Blank entries are dropped.
func SplitSubsystems(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
