package editor

import "strings"

// Action is a resolved command.
type Action int

const (
	// ActionNone is the zero value and is never returned with a nil error.
	ActionNone Action = iota
	// ActionQuit ends the session.
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// commands maps exact command literals to actions. No prefixes, no
// abbreviations beyond the listed aliases, no arguments.
var commands = map[string]Action{
	"q":    ActionQuit,
	"quit": ActionQuit,
}

// ParseCommand resolves a typed command line.
func ParseCommand(s string) (Action, error) {
	if a, ok := commands[s]; ok {
		return a, nil
	}
	return ActionNone, &UnknownCommandError{Command: s}
}

// CommandBuffer accumulates the bytes typed in command mode.
type CommandBuffer struct {
	sb strings.Builder
}

// Append adds one byte.
func (c *CommandBuffer) Append(b byte) {
	c.sb.WriteByte(b)
}

// String returns the accumulated command line.
func (c *CommandBuffer) String() string {
	return c.sb.String()
}

// Reset clears the buffer.
func (c *CommandBuffer) Reset() {
	c.sb.Reset()
}

// Len returns the number of bytes typed so far.
func (c *CommandBuffer) Len() int {
	return c.sb.Len()
}
