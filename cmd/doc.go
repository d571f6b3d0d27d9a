// Package cmd implements the command-line interface for meetscheduler.
//
// This package provides the following commands:
//   - serve: Start the HTTP API, or the MCP server with --transport stdio
//   - instant: Create a meeting that starts now
//   - schedule: Create a meeting at a future time
//   - slots: List the bookable time slots of a day
//   - generate-docs: Generate markdown documentation for the MCP tools
//   - version: Display version information
//
// Flags can also be set through MEETSCHEDULER_* environment variables or a
// meetscheduler.yaml file in the working directory or
// $XDG_CONFIG_HOME/meetscheduler.
package cmd
