package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/tdulog/internal/app"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	overrides  app.Overrides
}

func newRootCmd() *cobra.Command {
	var (
		flags     globalFlags
		prefsPath string
	)

	root := &cobra.Command{
		Use:   "tdulog [address]",
		Short: "Watch a robot's log stream in the terminal",
		Long: `tdulog connects to a robot's websocket log emitter and shows the stream
in a filterable terminal view.

The address may be a host, host:port, a ws://, wss:// or http(s):// URL, or
file://<path> to read a local log file instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  prefsPath,
				Overrides:  flags.overrides,
			}
			if len(args) == 1 {
				opts.Address = args[0]
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/tdulog/config.toml)")
	pf.StringVar(&flags.overrides.Level, "level", "", "minimum level: debug, info, warning, error")
	pf.StringVar(&flags.overrides.Subsystems, "subsystems", "", "comma-separated subsystems to show")
	pf.StringVar(&flags.overrides.Search, "search", "", "case-insensitive text to match")
	pf.StringVar(&flags.overrides.Query, "query", "", "filter as a query string, as copied with the share key")
	pf.StringVar(&flags.overrides.Passthrough, "passthrough", "", "show unstructured lines: debug, always, never")

	root.Flags().StringVar(&prefsPath, "prefs", "", "prefs file (default ~/.config/tdulog/prefs.toml)")
	root.Flags().BoolVar(&flags.overrides.NoAutoscroll, "no-autoscroll", false, "start with autoscroll paused")

	root.AddCommand(
		newTailCmd(&flags),
		newReplayCmd(&flags),
		newVersionCmd(),
	)
	return root
}
