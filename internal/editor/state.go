package editor

import "fmt"

// Options tune behavior the reference editor left unresolved.
type Options struct {
	// SplitLines moves the text after the cursor onto the new line when a
	// newline is typed. When false the new line starts empty and the
	// current line is left as is.
	SplitLines bool

	// JoinLines appends the current line to the previous one when
	// backspace is pressed at column 0. When false the cursor only moves
	// to the end of the previous line.
	JoinLines bool
}

// DefaultOptions returns the vi-like behavior: split on newline, join on
// backspace.
func DefaultOptions() Options {
	return Options{SplitLines: true, JoinLines: true}
}

// State is the whole editing session: buffer, cursor, command line and mode.
type State struct {
	opts   Options
	mode   Mode
	buf    *TextBuffer
	cursor Cursor
	cmd    CommandBuffer
	ended  bool
}

// New creates a session in Normal mode with the cursor at (0, 0). With no
// lines the buffer starts as a single empty line.
func New(opts Options, lines ...string) *State {
	return &State{
		opts: opts,
		mode: ModeNormal,
		buf:  NewTextBuffer(lines...),
	}
}

// Mode returns the current mode.
func (s *State) Mode() Mode { return s.mode }

// Cursor returns the current cursor position.
func (s *State) Cursor() Cursor { return s.cursor }

// Command returns the command line typed so far in Command mode.
func (s *State) Command() string { return s.cmd.String() }

// Lines returns a copy of the buffer contents.
func (s *State) Lines() []string { return s.buf.Lines() }

// LineCount returns the number of lines in the buffer.
func (s *State) LineCount() int { return s.buf.LineCount() }

// Ended reports whether a quit command has been accepted.
func (s *State) Ended() bool { return s.ended }

// Options returns the options the state was created with.
func (s *State) Options() Options { return s.opts }

// MoveCursor shifts the cursor by (dx, dy), clamping both coordinates to
// the buffer. Nothing is committed if either coordinate cannot be resolved.
func (s *State) MoveCursor(dx, dy int) error {
	next, err := s.cursor.Moved(s.buf, dx, dy)
	if err != nil {
		return fmt.Errorf("move cursor: %w", err)
	}
	s.cursor = next
	return nil
}

// Snapshot is a read-only copy of what a renderer needs to redraw the screen.
type Snapshot struct {
	Mode    Mode
	Lines   []string
	Cursor  Cursor
	Command string
}

// Snapshot copies the current state for rendering.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Mode:    s.mode,
		Lines:   s.buf.Lines(),
		Cursor:  s.cursor,
		Command: s.cmd.String(),
	}
}

// checkCursor verifies the cursor invariant after a mutation.
func (s *State) checkCursor() error {
	if s.cursor.Valid(s.buf) {
		return nil
	}
	n, _ := s.buf.LineLen(s.cursor.Row)
	if s.cursor.Row < 0 || s.cursor.Row >= s.buf.LineCount() {
		return rowOutOfBounds("cursor", s.cursor.Row, s.buf.LineCount())
	}
	return colOutOfBounds("cursor", s.cursor.Row, s.cursor.Col, n)
}
