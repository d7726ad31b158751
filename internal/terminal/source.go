// Package terminal is the raw byte driver: it puts the terminal into raw
// mode, reads one byte at a time and redraws the whole screen after each
// byte.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/zjrosen/modeline/internal/log"
)

// ErrInputClosed is returned when input ends before a quit command.
var ErrInputClosed = errors.New("input closed before quit")

// ByteSource reads raw bytes from a file. When the file is a terminal it is
// switched to raw mode until Close.
type ByteSource struct {
	in    *os.File
	fd    int
	saved *term.State
	buf   [1]byte
}

// Open prepares in for byte-at-a-time reading. A terminal is put into raw
// mode and its previous state saved; anything else (a pipe, a file) is
// read as is.
func Open(in *os.File) (*ByteSource, error) {
	src := &ByteSource{in: in, fd: int(in.Fd())}
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		log.Debug(log.CatTerm, "input is not a terminal, raw mode skipped", "fd", src.fd)
		return src, nil
	}

	saved, err := term.MakeRaw(src.fd)
	if err != nil {
		return nil, fmt.Errorf("can't set up raw terminal: %w", err)
	}
	src.saved = saved
	log.Debug(log.CatTerm, "raw mode enabled", "fd", src.fd)
	return src, nil
}

// Raw reports whether the source changed the terminal mode.
func (s *ByteSource) Raw() bool { return s.saved != nil }

// ReadByte blocks until one byte is available.
func (s *ByteSource) ReadByte() (byte, error) {
	if _, err := io.ReadFull(s.in, s.buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrInputClosed
		}
		return 0, fmt.Errorf("reading input: %w", err)
	}
	return s.buf[0], nil
}

// Close restores the terminal to the state saved by Open. It is safe to
// call more than once.
func (s *ByteSource) Close() error {
	if s.saved == nil {
		return nil
	}
	saved := s.saved
	s.saved = nil
	if err := term.Restore(s.fd, saved); err != nil {
		log.ErrorErr(log.CatTerm, "restoring terminal failed", err, "fd", s.fd)
		return fmt.Errorf("can't restore terminal: %w", err)
	}
	log.Debug(log.CatTerm, "terminal restored", "fd", s.fd)
	return nil
}
