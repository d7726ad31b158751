package editor

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a row or column falls outside the buffer.
// It signals a broken invariant inside the engine, never bad user input.
var ErrOutOfBounds = errors.New("position out of bounds")

func rowOutOfBounds(op string, row, count int) error {
	return fmt.Errorf("%s: row %d of %d lines: %w", op, row, count, ErrOutOfBounds)
}

func colOutOfBounds(op string, row, col, length int) error {
	return fmt.Errorf("%s: row %d col %d of length %d: %w", op, row, col, length, ErrOutOfBounds)
}

// UnknownCommandError is returned by ParseCommand for anything it does not
// recognize. Command holds the literal text that was typed.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return "Unknown command"
}
