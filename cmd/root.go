package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and the servers.
func SetVersion(v string) {
	version = v
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetscheduler",
		Short: "Creates Google Meet meetings through Google Calendar",
		Long: `meetscheduler creates Google Meet meetings on behalf of a Google account.

Instant meetings start now; their temporary calendar event is removed once
the join link is known. Scheduled meetings stay on the calendar.

It can run as:
  - An HTTP API server (serve)
  - An MCP (Model Context Protocol) server for AI assistants (serve --transport stdio)
  - A one-shot CLI (instant, schedule, slots)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "meetscheduler version %s\n" .Version}}`)

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newInstantCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "meetscheduler version %s\n", version)
		},
	}
}
