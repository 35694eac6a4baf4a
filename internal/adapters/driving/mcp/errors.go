// Package mcp provides an MCP (Model Context Protocol) server adapter for postcraft.
// It lets AI assistants draft posts, build hashtags and query the keyword ledger.
package mcp

import "errors"

// ErrMissingGenerator is returned when the content generator is not provided.
var ErrMissingGenerator = errors.New("mcp: content generator is required")

// ErrMissingKeywordService is returned when the keyword service is not provided.
var ErrMissingKeywordService = errors.New("mcp: keyword service is required")
