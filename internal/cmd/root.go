// Package cmd implements the taskflow command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskflow/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Project and task manager with dependency-aware scheduling",
		Long: `taskflow serves a project and task management API and orders tasks
so that every task comes after the tasks it depends on.

Run "taskflow serve" to start the API, or "taskflow schedule -f tasks.yaml"
to order a task file locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", config.DefaultPath, "path to the configuration file")
	flags.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.String("log-format", "", "log format: json or text (overrides config)")
	flags.Bool("no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(),
		newScheduleCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line with ctx, which is cancelled on SIGINT and
// SIGTERM by the caller.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
