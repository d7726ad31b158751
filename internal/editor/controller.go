package editor

import "fmt"

// Control bytes recognized by the handlers.
const (
	keyBackspace byte = 0x08
	keyTab       byte = '\t'
	keyNewline   byte = '\n'
	keyReturn    byte = '\r'
	keyEscape    byte = 0x1b
	keyDelete    byte = 0x7f
)

func isNewline(b byte) bool {
	return b == keyNewline || b == keyReturn
}

// HandleInput consumes exactly one raw byte and returns what the driver
// should do next.
//
// The error is reserved for broken invariants (it wraps ErrOutOfBounds).
// A mistyped command is not an error here: it comes back as an Outcome of
// kind OutcomeError. Once a quit command has been accepted every further
// call returns End without touching the state.
func (s *State) HandleInput(b byte) (Outcome, error) {
	if s.ended {
		return End, nil
	}

	var (
		next Mode
		out  Outcome
		err  error
	)
	switch s.mode {
	case ModeNormal:
		next, out, err = s.handleNormal(b)
	case ModeInsert:
		next, out, err = s.handleInsert(b)
	case ModeCommand:
		next, out, err = s.handleCommand(b)
	default:
		return Continue, fmt.Errorf("handle input: unknown mode %d", int(s.mode))
	}
	if err != nil {
		return Continue, fmt.Errorf("handle input %q in %s mode: %w", b, s.mode, err)
	}
	if err := s.checkCursor(); err != nil {
		return Continue, fmt.Errorf("handle input %q in %s mode: %w", b, s.mode, err)
	}

	s.mode = next
	if out.IsEnd() {
		s.ended = true
	}
	return out, nil
}

// handleNormal handles navigation and mode entry.
// h/l move left/right, j moves down (row+1) and k moves up (row-1).
func (s *State) handleNormal(b byte) (Mode, Outcome, error) {
	switch b {
	case 'i':
		return ModeInsert, Continue, nil
	case ':':
		s.cmd.Reset()
		return ModeCommand, Continue, nil
	case 'h':
		return ModeNormal, Continue, s.MoveCursor(-1, 0)
	case 'l':
		return ModeNormal, Continue, s.MoveCursor(1, 0)
	case 'j':
		return ModeNormal, Continue, s.MoveCursor(0, 1)
	case 'k':
		return ModeNormal, Continue, s.MoveCursor(0, -1)
	default:
		return ModeNormal, Continue, nil
	}
}

// handleInsert edits the buffer. It never ends the session or reports an
// outcome error.
func (s *State) handleInsert(b byte) (Mode, Outcome, error) {
	var err error
	switch {
	case b == keyEscape:
		return ModeNormal, Continue, nil
	case b == keyDelete || b == keyBackspace:
		err = s.backspace()
	case isNewline(b):
		err = s.newline()
	case b == keyTab || b >= 0x20:
		err = s.insert(b)
	}
	return ModeInsert, Continue, err
}

// handleCommand accumulates the command line and resolves it on newline.
func (s *State) handleCommand(b byte) (Mode, Outcome, error) {
	if !isNewline(b) {
		s.cmd.Append(b)
		return ModeCommand, Continue, nil
	}

	line := s.cmd.String()
	s.cmd.Reset()
	action, err := ParseCommand(line)
	if err != nil {
		return ModeNormal, errorOutcome(err, line), nil
	}
	switch action {
	case ActionQuit:
		return ModeCommand, End, nil
	default:
		return ModeNormal, Continue, nil
	}
}

func (s *State) insert(b byte) error {
	if err := s.buf.InsertByte(s.cursor.Row, s.cursor.Col, b); err != nil {
		return err
	}
	s.cursor.Col++
	return nil
}

func (s *State) backspace() error {
	row, col := s.cursor.Row, s.cursor.Col
	switch {
	case col > 0:
		if err := s.buf.DeleteByte(row, col-1); err != nil {
			return err
		}
		s.cursor.Col--
	case row > 0 && s.opts.JoinLines:
		prevLen, err := s.buf.JoinWithPrevious(row)
		if err != nil {
			return err
		}
		s.cursor = Cursor{Row: row - 1, Col: prevLen}
	case row > 0:
		// Lines are not merged; the cursor only moves up.
		n, err := s.buf.LineLen(row - 1)
		if err != nil {
			return err
		}
		s.cursor = Cursor{Row: row - 1, Col: n}
	}
	return nil
}

func (s *State) newline() error {
	row, col := s.cursor.Row, s.cursor.Col
	var err error
	if s.opts.SplitLines {
		err = s.buf.SplitLine(row, col)
	} else {
		err = s.buf.InsertLineAfter(row, "")
	}
	if err != nil {
		return err
	}
	s.cursor = Cursor{Row: row + 1, Col: 0}
	return nil
}
