package main

import (
	"os"

	"education-backend/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Loaded by the root command before any subcommand runs.
var cfg *config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "education-backend",
		Short:             "REST API for groups and students",
		Long:              "Serves the groups and students REST API backed by PostgreSQL. Runs the server when no subcommand is given.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfigE,
		RunE:              runServe,
	}

	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.PersistentFlags().String("log-format", "", "log format: text or json (overrides LOG_FORMAT)")

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func loadConfigE(cmd *cobra.Command, _ []string) error {
	cfg = config.Load()
	applyLogFlags(cmd, cfg)
	return config.SetupLogging(cfg.LogLevel, cfg.LogFormat)
}

// applyLogFlags lets explicitly set flags win over the environment.
func applyLogFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		c.LogFormat, _ = flags.GetString("log-format")
	}
}
