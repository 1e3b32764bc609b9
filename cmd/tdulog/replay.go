package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/five82/tdulog/internal/app"
	"github.com/five82/tdulog/internal/logtail"
)

func newReplayCmd(flags *globalFlags) *cobra.Command {
	var (
		lines  int
		follow bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Print a saved log file through the filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := flags.overrides
			if cmd.Flags().Changed("lines") {
				overrides.Lines = &lines
			}
			overrides.Follow = follow

			cfg, err := app.Resolve(flags.configPath, overrides)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			return runHeadless(cmd, cfg, logtail.Scheme+path, plain)
		},
	}
	cmd.Flags().IntVar(&lines, "lines", 0, "replay only the last N lines (0 = whole file)")
	cmd.Flags().BoolVar(&follow, "follow", false, "keep printing lines appended to the file")
	cmd.Flags().BoolVar(&plain, "plain", false, "print records without colour")
	return cmd
}
