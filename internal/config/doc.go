// Package config loads the tdulog client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tdulog/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, keep the defaults
//
// Files ending in .yaml or .yml are parsed as YAML; every other extension is
// parsed as TOML. Both forms share one layout:
//
//	address = "robot.local"        # host, host:port, ws://, wss:// or file://
//	port = 5804                    # used when address carries no port
//	handshake_timeout = "10s"      # empty waits indefinitely
//	autoscroll = true
//
//	[filter]
//	level = "info"                 # debug, info, warning, error
//	subsystems = ["Drive", "Net"]
//	search = ""
//	passthrough = "debug"          # debug, always, never
//
//	[log]
//	level = "info"
//	file = "~/.local/state/tdulog/tdulog.log"
//
//	[replay]
//	lines = 0                      # 0 replays the whole file
//	follow = false
//
// # Precedence
//
// Config is the first layer only. The CLI applies flags and then a --query
// string on top of the loaded value.
//
// # Validation
//
// Unknown filter levels and passthrough modes, unparsable durations and
// out-of-range numbers are rejected with an error naming the field, so a typo
// does not silently widen the filter.
package config
