package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/logline"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address != defaultAddress {
		t.Fatalf("Address = %q, want %q", cfg.Address, defaultAddress)
	}
	if cfg.Port != 5804 {
		t.Fatalf("Port = %d, want 5804", cfg.Port)
	}
	if !cfg.Autoscroll {
		t.Fatal("Autoscroll should default to true")
	}
	if cfg.HandshakeTimeout != 0 {
		t.Fatalf("HandshakeTimeout = %v, want 0", cfg.HandshakeTimeout)
	}
	if cfg.Filter.Level != logline.LevelDebug || cfg.Filter.Passthrough != filter.PassthroughAtDebug {
		t.Fatalf("Filter = %+v, want defaults", cfg.Filter)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.Log.File != wantLog {
		t.Fatalf("Log.File = %q, want %q", cfg.Log.File, wantLog)
	}
	if !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "tdulog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`address = "robot.local"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address != "robot.local" {
		t.Fatalf("Address = %q, want robot.local", cfg.Address)
	}
}

func TestLoad_ParsesTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, "config.toml", `
address = "  10.0.0.5  "
port = 9000
handshake_timeout = "5s"
autoscroll = false

[filter]
level = "warning"
subsystems = ["Drive", " ", "Vision"]
search = "stall"
passthrough = "never"

[log]
level = "debug"
file = "~/logs/tdulog.log"

[replay]
lines = 200
follow = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address != "10.0.0.5" || cfg.Port != 9000 {
		t.Fatalf("Address/Port = %q/%d", cfg.Address, cfg.Port)
	}
	if cfg.HandshakeTimeout != 5*time.Second {
		t.Fatalf("HandshakeTimeout = %v, want 5s", cfg.HandshakeTimeout)
	}
	if cfg.Autoscroll {
		t.Fatal("Autoscroll = true, want false")
	}
	wantFilter := filter.Config{
		Level:       logline.LevelWarning,
		Subsystems:  []string{"Drive", "Vision"},
		Search:      "stall",
		Passthrough: filter.PassthroughNever,
	}
	if !reflect.DeepEqual(cfg.Filter, wantFilter) {
		t.Fatalf("Filter = %+v, want %+v", cfg.Filter, wantFilter)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.File != filepath.Join(home, "logs", "tdulog.log") {
		t.Fatalf("Log.File = %q", cfg.Log.File)
	}
	if cfg.Replay != (ReplayConfig{Lines: 200, Follow: true}) {
		t.Fatalf("Replay = %+v", cfg.Replay)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
address: robot.local
filter:
  level: error
  subsystems: [Net]
replay:
  lines: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Address != "robot.local" {
		t.Fatalf("Address = %q, want robot.local", cfg.Address)
	}
	if cfg.Filter.Level != logline.LevelError {
		t.Fatalf("Filter.Level = %v, want Error", cfg.Filter.Level)
	}
	if !reflect.DeepEqual(cfg.Filter.Subsystems, []string{"Net"}) {
		t.Fatalf("Filter.Subsystems = %v", cfg.Filter.Subsystems)
	}
	if cfg.Replay.Lines != 50 {
		t.Fatalf("Replay.Lines = %d, want 50", cfg.Replay.Lines)
	}
	if !cfg.Autoscroll {
		t.Fatal("autoscroll omitted should keep the default")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"bad toml", "c.toml", "address = ", "parse config"},
		{"bad yaml", "c.yml", "filter: [", "parse config"},
		{"bad level", "c.toml", "[filter]\nlevel = \"loud\"", "filter.level"},
		{"bad passthrough", "c.toml", "[filter]\npassthrough = \"sometimes\"", "filter.passthrough"},
		{"bad timeout", "c.toml", "handshake_timeout = \"soon\"", "handshake_timeout"},
		{"bad port", "c.toml", "port = 70000", "port"},
		{"negative lines", "c.toml", "[replay]\nlines = -1", "replay.lines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("Load returned nil error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y.log")
	if err != nil {
		t.Fatalf("ExpandPath error: %v", err)
	}
	if got != filepath.Join(home, "x", "y.log") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if _, err := ExpandPath("  "); err == nil {
		t.Fatal("ExpandPath of blank path should fail")
	}
}
