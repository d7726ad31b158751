package tracing

// Span attribute keys.
const (
	AttrSessionID  = "session.id"
	AttrInputByte  = "input.byte"
	AttrModeBefore = "mode.before"
	AttrModeAfter  = "mode.after"
	AttrOutcome    = "outcome.kind"
	AttrCommand    = "command.literal"
	AttrLineCount  = "buffer.lines"
	AttrCursorRow  = "cursor.row"
	AttrCursorCol  = "cursor.col"
	AttrKeystrokes = "session.keystrokes"
	AttrDriver     = "session.driver"
)

// Span names.
const (
	SpanSession   = "editor.session"
	SpanKeystroke = "editor.keystroke"
)

// Event names for span events.
const (
	EventModeChanged    = "mode.changed"
	EventUnknownCommand = "command.unknown"
	EventSessionEnded   = "session.ended"
)
