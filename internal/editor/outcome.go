package editor

// OutcomeKind indicates what the driver should do after an input byte.
type OutcomeKind int

const (
	// OutcomeContinue means the session keeps reading input.
	OutcomeContinue OutcomeKind = iota
	// OutcomeEnd means the session is over. No further input is processed.
	OutcomeEnd
	// OutcomeError reports a recoverable error such as an unknown command.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeEnd:
		return "end"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of handling one input byte.
type Outcome struct {
	Kind OutcomeKind

	// Message is the user-facing text for OutcomeError.
	Message string

	// Command is the literal command line that produced an OutcomeError.
	Command string
}

// Continue is the outcome of every ordinary keystroke.
var Continue = Outcome{Kind: OutcomeContinue}

// End is the outcome of a quit command.
var End = Outcome{Kind: OutcomeEnd}

// errorOutcome builds an OutcomeError from an error returned by ParseCommand.
func errorOutcome(err error, command string) Outcome {
	return Outcome{Kind: OutcomeError, Message: err.Error(), Command: command}
}

// IsEnd reports whether the session should stop.
func (o Outcome) IsEnd() bool { return o.Kind == OutcomeEnd }

// IsError reports whether the outcome carries a recoverable error.
func (o Outcome) IsError() bool { return o.Kind == OutcomeError }
