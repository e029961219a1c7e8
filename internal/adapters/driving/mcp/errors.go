// Package mcp provides an MCP (Model Context Protocol) server adapter for
// kbsync. It lets AI assistants search a bot's knowledge base and read its
// documents, notes, and instruction through the shared client cache.
package mcp

import "errors"

// ErrMissingKnowledgeService is returned when the knowledge service is not provided.
var ErrMissingKnowledgeService = errors.New("mcp: knowledge service is required")
