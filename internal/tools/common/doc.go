// Package common provides helpers shared by the MCP tool packages:
// argument extraction, result rendering and the instrumentation wrapper
// every tool handler is registered through.
package common
