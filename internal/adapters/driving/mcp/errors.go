// Package mcp exposes the report retrieval tools over the Model Context Protocol.
// Agents reach it over stdio or streamable HTTP.
package mcp

import "errors"

// ErrMissingToolService is returned when the tool service is not provided.
var ErrMissingToolService = errors.New("mcp: tool service is required")
