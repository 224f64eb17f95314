package main

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/mudstate/internal/core/config"
	"github.com/zeusync/mudstate/internal/injector"
)

// NewRootCmd builds the mudctl command tree. Configuration is read from the
// environment before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var (
		logLevel string
		app      *injector.App
	)

	root := &cobra.Command{
		Use:           "mudctl",
		Short:         "Build, check and migrate MUD world data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			app = injector.InitializeApp(cfg)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app != nil {
				_ = app.Logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	provide := func() *injector.App { return app }
	root.AddCommand(
		newConfgenCmd(provide),
		newMigrateCmd(provide),
		newCheckCmd(provide),
	)
	return root
}
