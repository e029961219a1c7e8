package mcp

import (
	"github.com/tidewater-labs/kbsync/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Knowledge is the knowledge-base client service.
	Knowledge driving.KnowledgeService

	// DefaultBot is used when a tool call omits the bot ID.
	DefaultBot string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Knowledge == nil {
		return ErrMissingKnowledgeService
	}
	return nil
}

// bot resolves the effective bot ID for a request.
func (p *Ports) bot(requested string) string {
	if requested != "" {
		return requested
	}
	return p.DefaultBot
}
