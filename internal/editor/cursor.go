package editor

// Cursor is a (row, column) position in a TextBuffer. Col counts bytes and
// may equal the line length (the position after the last byte).
type Cursor struct {
	Row int
	Col int
}

// Valid reports whether the cursor lies inside buf.
func (c Cursor) Valid(buf *TextBuffer) bool {
	n, err := buf.LineLen(c.Row)
	if err != nil {
		return false
	}
	return c.Col >= 0 && c.Col <= n
}

// Moved returns the cursor shifted by (dx, dy) and clamped to buf.
//
// The row is clamped to [0, LineCount-1]. On a non-empty target line the
// column is clamped to [0, len-1]; on an empty line it is 0.
func (c Cursor) Moved(buf *TextBuffer, dx, dy int) (Cursor, error) {
	row := clamp(c.Row+dy, 0, buf.LineCount()-1)
	n, err := buf.LineLen(row)
	if err != nil {
		return c, err
	}
	col := 0
	if n > 0 {
		col = clamp(c.Col+dx, 0, n-1)
	}
	return Cursor{Row: row, Col: col}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
