package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/modeline/internal/editor"
	"github.com/zjrosen/modeline/internal/render"
	"github.com/zjrosen/modeline/internal/session"
)

// Driver feeds bytes from a source into a session and redraws after each.
type Driver struct {
	src      io.ByteReader
	out      io.Writer
	sess     *session.Session
	renderer *render.Renderer
}

// NewDriver wires a byte source, an output and a session together.
func NewDriver(src io.ByteReader, out io.Writer, sess *session.Session, r *render.Renderer) *Driver {
	return &Driver{src: src, out: out, sess: sess, renderer: r}
}

// Run draws the initial frame then processes bytes until the session ends,
// ctx is cancelled, or reading or writing fails. Cancellation is checked
// between bytes; a blocked read is not interrupted.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.draw(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		b, err := d.src.ReadByte()
		if errors.Is(err, io.EOF) {
			return ErrInputClosed
		}
		if err != nil {
			return err
		}

		out, err := d.sess.Feed(b)
		if err != nil {
			return fmt.Errorf("session %s: %w", d.sess.ID(), err)
		}
		if err := d.draw(); err != nil {
			return err
		}
		if out.Kind == editor.OutcomeEnd {
			return nil
		}
	}
}

// draw clears the screen and writes a full frame. Raw mode disables output
// post-processing, so rows are separated with CRLF.
func (d *Driver) draw() error {
	frame := d.renderer.Frame(d.sess.Snapshot(), render.Status{Message: d.sess.LastError()})
	var sb strings.Builder
	sb.WriteString(ansi.EraseEntireScreen)
	sb.WriteString(ansi.CursorHomePosition)
	sb.WriteString(strings.ReplaceAll(frame, "\n", "\r\n"))
	sb.WriteString("\r\n")
	if _, err := io.WriteString(d.out, sb.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
