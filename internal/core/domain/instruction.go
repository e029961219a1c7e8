package domain

import "time"

// MaxInstructionLength is the longest instruction blob the server accepts.
// Enforced client-side before any request is made.
const MaxInstructionLength = 10000

// Instruction is the single custom-instruction blob a bot carries.
// An empty Content means "unset"; clearing never removes the map entry.
type Instruction struct {
	Content string `json:"content"`

	// UpdatedAt is nil until the instruction has been written at least once.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsSet reports whether the bot has a non-empty instruction.
func (i Instruction) IsSet() bool {
	return i.Content != ""
}
