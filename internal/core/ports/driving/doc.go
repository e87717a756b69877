// Package driving defines the services the CLI and the MCP server call
// into: validation, profile lookup, history and settings.
//
// Implementations live in internal/core/services.
package driving
