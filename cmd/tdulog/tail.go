package main

import (
	"fmt"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/five82/tdulog/internal/app"
	"github.com/five82/tdulog/internal/config"
	"github.com/five82/tdulog/internal/logging"
)

func newTailCmd(flags *globalFlags) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "tail [address]",
		Short: "Print matching log lines to stdout without the TUI",
		Long: `tail connects like the TUI does and prints every record that passes the
filter. It exits 0 when the emitter closes the connection and 1 when the
connection fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Resolve(flags.configPath, flags.overrides)
			if err != nil {
				return err
			}
			address := cfg.Address
			if len(args) == 1 {
				address = args[0]
			}
			return runHeadless(cmd, cfg, address, noColor)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "print records without colour")
	return cmd
}

// runHeadless runs app.Tail with a stderr logger.
func runHeadless(cmd *cobra.Command, cfg config.Config, address string, noColor bool) error {
	logger, err := headlessLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logging.Close(logger)

	return app.Tail(cmd.Context(), app.TailOptions{
		Config:  cfg,
		Address: address,
		NoColor: noColor,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Logger:  logger,
	})
}

func headlessLogger(cmd *cobra.Command, cfg config.Config) (*log.Logger, error) {
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Stderr: cmd.ErrOrStderr()})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return logger, nil
}
