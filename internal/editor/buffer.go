package editor

// TextBuffer is an ordered list of lines. It always holds at least one line.
// Every accessor checks its row and column and returns an error wrapping
// ErrOutOfBounds instead of panicking.
type TextBuffer struct {
	lines []string
}

// NewTextBuffer creates a buffer with the given lines, or a single empty
// line when none are given.
func NewTextBuffer(lines ...string) *TextBuffer {
	if len(lines) == 0 {
		return &TextBuffer{lines: []string{""}}
	}
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &TextBuffer{lines: cp}
}

// LineCount returns the number of lines. It is never zero.
func (b *TextBuffer) LineCount() int {
	return len(b.lines)
}

// Line returns the content of a row.
func (b *TextBuffer) Line(row int) (string, error) {
	if err := b.checkRow("line", row); err != nil {
		return "", err
	}
	return b.lines[row], nil
}

// LineLen returns the byte length of a row.
func (b *TextBuffer) LineLen(row int) (int, error) {
	line, err := b.Line(row)
	if err != nil {
		return 0, err
	}
	return len(line), nil
}

// Lines returns a copy of all lines.
func (b *TextBuffer) Lines() []string {
	cp := make([]string, len(b.lines))
	copy(cp, b.lines)
	return cp
}

// InsertByte inserts c before column col of row. col may equal the line
// length, which appends.
func (b *TextBuffer) InsertByte(row, col int, c byte) error {
	if err := b.checkCol("insert byte", row, col); err != nil {
		return err
	}
	line := b.lines[row]
	b.lines[row] = line[:col] + string([]byte{c}) + line[col:]
	return nil
}

// DeleteByte removes the byte at column col of row.
func (b *TextBuffer) DeleteByte(row, col int) error {
	if err := b.checkRow("delete byte", row); err != nil {
		return err
	}
	line := b.lines[row]
	if col < 0 || col >= len(line) {
		return colOutOfBounds("delete byte", row, col, len(line))
	}
	b.lines[row] = line[:col] + line[col+1:]
	return nil
}

// InsertLineAfter inserts text as a new line directly below row.
func (b *TextBuffer) InsertLineAfter(row int, text string) error {
	if err := b.checkRow("insert line", row); err != nil {
		return err
	}
	b.lines = append(b.lines, "")
	copy(b.lines[row+2:], b.lines[row+1:])
	b.lines[row+1] = text
	return nil
}

// SplitLine breaks row at col. Text from col onward becomes a new line
// directly below.
func (b *TextBuffer) SplitLine(row, col int) error {
	if err := b.checkCol("split line", row, col); err != nil {
		return err
	}
	line := b.lines[row]
	b.lines[row] = line[:col]
	return b.InsertLineAfter(row, line[col:])
}

// JoinWithPrevious appends row to row-1 and removes row. It returns the
// length the previous line had before the join.
func (b *TextBuffer) JoinWithPrevious(row int) (int, error) {
	if err := b.checkRow("join line", row); err != nil {
		return 0, err
	}
	if row == 0 {
		return 0, rowOutOfBounds("join line", row-1, len(b.lines))
	}
	prevLen := len(b.lines[row-1])
	b.lines[row-1] += b.lines[row]
	b.lines = append(b.lines[:row], b.lines[row+1:]...)
	return prevLen, nil
}

func (b *TextBuffer) checkRow(op string, row int) error {
	if row < 0 || row >= len(b.lines) {
		return rowOutOfBounds(op, row, len(b.lines))
	}
	return nil
}

// checkCol accepts col in [0, len(line)].
func (b *TextBuffer) checkCol(op string, row, col int) error {
	if err := b.checkRow(op, row); err != nil {
		return err
	}
	if n := len(b.lines[row]); col < 0 || col > n {
		return colOutOfBounds(op, row, col, n)
	}
	return nil
}
