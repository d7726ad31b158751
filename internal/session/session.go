// Package session owns the single editor.State of a run and is the only
// code that mutates it. Every byte goes through Feed, which records a trace
// span and logs mode changes, command errors and invariant failures.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/modeline/internal/editor"
	"github.com/zjrosen/modeline/internal/log"
	"github.com/zjrosen/modeline/internal/tracing"
)

// Config describes how a session is created.
type Config struct {
	// Options are passed to editor.New.
	Options editor.Options

	// Tracer records spans. Nil means no tracing.
	Tracer trace.Tracer

	// Driver names the input driver ("tui" or "raw") for logs and traces.
	Driver string
}

// Session is one editing session.
type Session struct {
	id         string
	driver     string
	state      *editor.State
	tracer     trace.Tracer
	span       trace.Span
	keystrokes int
	lastError  string
	closed     bool
}

// New starts a session with a fresh editor state.
func New(cfg Config) *Session {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	id := uuid.NewString()
	_, span := tracer.Start(context.Background(), tracing.SpanSession,
		trace.WithAttributes(
			attribute.String(tracing.AttrSessionID, id),
			attribute.String(tracing.AttrDriver, cfg.Driver),
		),
	)

	log.Info(log.CatMode, "session started", "session", id, "driver", cfg.Driver,
		"split_lines", cfg.Options.SplitLines, "join_lines", cfg.Options.JoinLines)

	return &Session{
		id:     id,
		driver: cfg.Driver,
		state:  editor.New(cfg.Options),
		tracer: tracer,
		span:   span,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Keystrokes returns the number of bytes fed so far.
func (s *Session) Keystrokes() int { return s.keystrokes }

// Ended reports whether a quit command was accepted.
func (s *Session) Ended() bool { return s.state.Ended() }

// LastError returns the message of the most recent OutcomeError. It is
// cleared when the session next leaves Normal mode.
func (s *Session) LastError() string { return s.lastError }

// Snapshot returns the render snapshot of the editor state.
func (s *Session) Snapshot() editor.Snapshot { return s.state.Snapshot() }

// Feed hands one byte to the editor.
func (s *Session) Feed(b byte) (editor.Outcome, error) {
	if s.state.Ended() {
		return editor.End, nil
	}
	s.keystrokes++

	ctx := trace.ContextWithSpan(context.Background(), s.span)
	_, span := s.tracer.Start(ctx, tracing.SpanKeystroke,
		trace.WithAttributes(
			attribute.Int(tracing.AttrInputByte, int(b)),
			attribute.String(tracing.AttrModeBefore, s.state.Mode().String()),
		),
	)
	defer span.End()

	before := s.state.Mode()
	out, err := s.state.HandleInput(b)
	after := s.state.Mode()
	cur := s.state.Cursor()

	span.SetAttributes(
		attribute.String(tracing.AttrModeAfter, after.String()),
		attribute.String(tracing.AttrOutcome, out.Kind.String()),
		attribute.Int(tracing.AttrLineCount, s.state.LineCount()),
		attribute.Int(tracing.AttrCursorRow, cur.Row),
		attribute.Int(tracing.AttrCursorCol, cur.Col),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatBuffer, "input rejected", err, "session", s.id, "byte", fmt.Sprintf("%#02x", b))
		return out, err
	}

	if before != after {
		span.AddEvent(tracing.EventModeChanged)
		log.Debug(log.CatMode, "mode changed", "from", before, "to", after)
		if after != editor.ModeNormal {
			s.lastError = ""
		}
	}

	switch out.Kind {
	case editor.OutcomeError:
		s.lastError = out.Message
		span.AddEvent(tracing.EventUnknownCommand,
			trace.WithAttributes(attribute.String(tracing.AttrCommand, out.Command)))
		span.SetStatus(codes.Error, out.Message)
		log.Warn(log.CatCommand, "unknown command", "command", out.Command)
	case editor.OutcomeEnd:
		span.AddEvent(tracing.EventSessionEnded)
		log.Info(log.CatCommand, "quit accepted", "session", s.id)
	}
	return out, nil
}

// FeedBytes feeds each byte of p in order and stops at the first End or
// error. It returns the last outcome.
func (s *Session) FeedBytes(p []byte) (editor.Outcome, error) {
	out := editor.Continue
	for _, b := range p {
		var err error
		out, err = s.Feed(b)
		if err != nil || out.IsEnd() {
			return out, err
		}
	}
	return out, nil
}

// Close ends the session span and logs a summary. It is safe to call more
// than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.span.SetAttributes(
		attribute.Int(tracing.AttrKeystrokes, s.keystrokes),
		attribute.Int(tracing.AttrLineCount, s.state.LineCount()),
	)
	s.span.End()
	log.Info(log.CatMode, "session closed", "session", s.id,
		"keystrokes", s.keystrokes, "lines", s.state.LineCount(), "ended", s.state.Ended())
}
