package editor

// Mode represents the current editing mode.
type Mode int

const (
	// ModeNormal is the starting mode used for navigation.
	ModeNormal Mode = iota
	// ModeInsert places typed bytes into the buffer.
	ModeInsert
	// ModeCommand accumulates a command line until newline.
	ModeCommand
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}
