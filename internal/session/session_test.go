package session

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/modeline/internal/editor"
	"github.com/zjrosen/modeline/internal/log"
	"github.com/zjrosen/modeline/internal/tracing"
)

func newTracedSession(t *testing.T) (*Session, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	p := tracing.NewProviderWithExporter(exp)
	s := New(Config{Options: editor.DefaultOptions(), Tracer: p.Tracer(), Driver: "test"})
	return s, exp
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSession_FeedEditsAndCounts(t *testing.T) {
	s := New(Config{Options: editor.DefaultOptions()})
	require.NotEmpty(t, s.ID())

	out, err := s.FeedBytes([]byte("ihi\x1b"))
	require.NoError(t, err)
	require.Equal(t, editor.Continue, out)
	require.Equal(t, 4, s.Keystrokes())

	snap := s.Snapshot()
	require.Equal(t, []string{"hi"}, snap.Lines)
	require.Equal(t, editor.ModeNormal, snap.Mode)
}

func TestSession_IDsAreUnique(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	require.NotEqual(t, a.ID(), b.ID())
}

func TestSession_FeedBytesStopsAtEnd(t *testing.T) {
	s := New(Config{Options: editor.DefaultOptions()})

	out, err := s.FeedBytes([]byte(":q\nihello"))
	require.NoError(t, err)
	require.True(t, out.IsEnd())
	require.True(t, s.Ended())
	require.Equal(t, 3, s.Keystrokes())

	out, err = s.Feed('i')
	require.NoError(t, err)
	require.True(t, out.IsEnd())
	require.Equal(t, 3, s.Keystrokes(), "bytes after End are not counted")
}

func TestSession_LastError(t *testing.T) {
	s := New(Config{Options: editor.DefaultOptions()})

	_, err := s.FeedBytes([]byte(":nope\n"))
	require.NoError(t, err)
	require.Equal(t, "Unknown command", s.LastError())

	_, err = s.Feed('l')
	require.NoError(t, err)
	require.Equal(t, "Unknown command", s.LastError(), "navigation keeps the message")

	_, err = s.Feed('i')
	require.NoError(t, err)
	require.Empty(t, s.LastError())
}

func TestSession_TracesKeystrokes(t *testing.T) {
	s, exp := newTracedSession(t)

	_, err := s.FeedBytes([]byte(":x\n"))
	require.NoError(t, err)
	s.Close()

	spans := exp.GetSpans()
	require.Len(t, spans, 4, "three keystrokes and the session")

	last := spans[2]
	require.Equal(t, tracing.SpanKeystroke, last.Name)
	v, ok := attr(last.Attributes, tracing.AttrOutcome)
	require.True(t, ok)
	require.Equal(t, "error", v.AsString())
	v, ok = attr(last.Attributes, tracing.AttrModeAfter)
	require.True(t, ok)
	require.Equal(t, "NORMAL", v.AsString())
	require.Equal(t, tracing.EventUnknownCommand, last.Events[len(last.Events)-1].Name)

	session := spans[3]
	require.Equal(t, tracing.SpanSession, session.Name)
	require.Equal(t, session.SpanContext.SpanID(), last.Parent.SpanID())
	v, ok = attr(session.Attributes, tracing.AttrKeystrokes)
	require.True(t, ok)
	require.Equal(t, int64(3), v.AsInt64())
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s, exp := newTracedSession(t)
	s.Close()
	s.Close()
	require.Len(t, exp.GetSpans(), 1)
}

func TestSession_LogsModeChanges(t *testing.T) {
	var buf bytes.Buffer
	defer log.InitWriter(&buf)()

	s := New(Config{Options: editor.DefaultOptions(), Driver: "raw"})
	_, err := s.FeedBytes([]byte("i\x1b:zz\n"))
	require.NoError(t, err)
	s.Close()

	out := buf.String()
	require.Contains(t, out, "session started")
	require.Contains(t, out, "driver=raw")
	require.Contains(t, out, "mode changed from=NORMAL to=INSERT")
	require.Contains(t, out, "[WARN] [command] unknown command command=zz")
	require.Contains(t, out, "session closed")
}
