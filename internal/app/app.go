package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/tdulog/internal/config"
	"github.com/five82/tdulog/internal/logging"
	"github.com/five82/tdulog/internal/prefs"
	"github.com/five82/tdulog/internal/state"
	"github.com/five82/tdulog/internal/stream"
	"github.com/five82/tdulog/internal/ui"
)

// Options configure the tdulog application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tdulog/prefs.toml
	Address    string // command-line address; empty falls back to prefs, then config
	Overrides  Overrides
}

// Run boots the tdulog TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := Resolve(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so diagnostics always go to a file.
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close(logger)

	userPrefs := prefs.Load(opts.PrefsPath)
	address, explicit := pickAddress(opts.Address, userPrefs, cfg)

	store := state.NewStore(cfg.Autoscroll)
	session := stream.NewSession(NewDialer(cfg, logger), store, stream.WithLogger(logger))
	defer session.Disconnect()

	logger.Info().Str("addr", address).Str("filter", cfg.Filter.Encode()).Msg("starting tdulog")

	return ui.Run(ui.Options{
		Context:     ctx,
		Session:     session,
		Address:     address,
		Filter:      cfg.Filter,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		Logger:      logger,
		AutoConnect: explicit,
	})
}

// pickAddress returns the address to show in the TUI and whether the user
// asked for it explicitly. The last address used wins over the config file.
func pickAddress(arg string, p prefs.Prefs, cfg config.Config) (string, bool) {
	if a := strings.TrimSpace(arg); a != "" {
		return a, true
	}
	if a := strings.TrimSpace(p.Address); a != "" {
		return a, false
	}
	return strings.TrimSpace(cfg.Address), false
}
