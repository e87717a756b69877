// Package mcp provides an MCP (Model Context Protocol) server adapter for metaval.
// It lets AI assistants validate metadata records and inspect stored profiles.
package mcp

import "errors"

// ErrMissingValidationService is returned when the validation service is not provided.
var ErrMissingValidationService = errors.New("mcp: validation service is required")

// ErrMissingProfileService is returned by tools that need the profile service.
var ErrMissingProfileService = errors.New("mcp: profile service is not configured")
