package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/logline"
	"github.com/five82/tdulog/internal/transport"
)

// Config is the resolved client configuration.
type Config struct {
	Address          string
	Port             int
	HandshakeTimeout time.Duration
	Autoscroll       bool
	Filter           filter.Config
	Log              LogConfig
	Replay           ReplayConfig
}

// LogConfig controls tdulog's own diagnostic log.
type LogConfig struct {
	Level string
	File  string
}

// ReplayConfig holds defaults for file:// sources.
type ReplayConfig struct {
	Lines  int // zero replays the whole file
	Follow bool
}

const (
	defaultConfigPath = "~/.config/tdulog/config.toml"
	defaultLogFile    = "~/.local/state/tdulog/tdulog.log"
	defaultAddress    = "localhost"
	defaultLogLevel   = "info"
)

// fileConfig mirrors the on-disk layout shared by the TOML and YAML forms.
type fileConfig struct {
	Address          string `toml:"address" yaml:"address"`
	Port             int    `toml:"port" yaml:"port"`
	HandshakeTimeout string `toml:"handshake_timeout" yaml:"handshake_timeout"`
	Autoscroll       *bool  `toml:"autoscroll" yaml:"autoscroll"`
	Filter           struct {
		Level       string   `toml:"level" yaml:"level"`
		Subsystems  []string `toml:"subsystems" yaml:"subsystems"`
		Search      string   `toml:"search" yaml:"search"`
		Passthrough string   `toml:"passthrough" yaml:"passthrough"`
	} `toml:"filter" yaml:"filter"`
	Log struct {
		Level string `toml:"level" yaml:"level"`
		File  string `toml:"file" yaml:"file"`
	} `toml:"log" yaml:"log"`
	Replay struct {
		Lines  int  `toml:"lines" yaml:"lines"`
		Follow bool `toml:"follow" yaml:"follow"`
	} `toml:"replay" yaml:"replay"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Address:    defaultAddress,
		Port:       transport.DefaultPort,
		Autoscroll: true,
		Filter:     filter.Default(),
		Log:        LogConfig{Level: defaultLogLevel, File: mustExpand(defaultLogFile)},
	}
}

// Load locates and parses the tdulog config, falling back to defaults when
// missing. Files ending in .yaml or .yml are read as YAML, anything else as
// TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := apply(&cfg, raw); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", resolved, err)
	}
	return cfg, nil
}

func apply(cfg *Config, raw fileConfig) error {
	if addr := strings.TrimSpace(raw.Address); addr != "" {
		cfg.Address = addr
	}
	if raw.Port < 0 || raw.Port > 65535 {
		return fmt.Errorf("port %d out of range", raw.Port)
	}
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if timeout := strings.TrimSpace(raw.HandshakeTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("handshake_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("handshake_timeout %s is negative", d)
		}
		cfg.HandshakeTimeout = d
	}
	if raw.Autoscroll != nil {
		cfg.Autoscroll = *raw.Autoscroll
	}

	if level := strings.TrimSpace(raw.Filter.Level); level != "" {
		parsed, err := logline.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("filter.level: %w", err)
		}
		cfg.Filter.Level = parsed
	}
	for _, sub := range raw.Filter.Subsystems {
		if sub = strings.TrimSpace(sub); sub != "" {
			cfg.Filter.Subsystems = append(cfg.Filter.Subsystems, sub)
		}
	}
	cfg.Filter.Search = raw.Filter.Search
	if mode := strings.TrimSpace(raw.Filter.Passthrough); mode != "" {
		parsed, err := filter.ParsePassthroughMode(mode)
		if err != nil {
			return fmt.Errorf("filter.passthrough: %w", err)
		}
		cfg.Filter.Passthrough = parsed
	}

	if level := strings.TrimSpace(raw.Log.Level); level != "" {
		cfg.Log.Level = level
	}
	if file := strings.TrimSpace(raw.Log.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("log.file: %w", err)
		}
		cfg.Log.File = expanded
	}

	if raw.Replay.Lines < 0 {
		return fmt.Errorf("replay.lines %d is negative", raw.Replay.Lines)
	}
	cfg.Replay.Lines = raw.Replay.Lines
	cfg.Replay.Follow = raw.Replay.Follow
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
