package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_FormatsEntry(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	Info(CatCommand, "resolved", "command", "quit", "action", "quit")

	line := buf.String()
	require.Contains(t, line, "[INFO] [command] resolved command=quit action=quit")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	defer InitWriter(&buf)()

	Debug(CatInput, "byte", "value")
	require.Contains(t, buf.String(), "value=<missing>")
}

func TestLog_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	defer InitWriter(&buf)()

	ErrorErr(CatBuffer, "invariant", os.ErrNotExist)
	ErrorErr(CatBuffer, "invariant", nil)

	out := buf.String()
	require.Contains(t, out, "[ERROR] [buffer] invariant error=file does not exist")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	defer InitWriter(&buf)()

	SetMinLevel(LevelWarn)
	Info(CatMode, "hidden")
	Warn(CatMode, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	SetEnabled(false)
	Error(CatMode, "muted")
	require.Empty(t, buf.String())
}

func TestLog_NotInitializedIsNoop(t *testing.T) {
	Close()
	Info(CatUI, "nobody listens")
	require.Nil(t, NewListener(context.Background()))
}

func TestLog_InitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modeline.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Warn(CatTerm, "restored", "fd", 0)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[WARN] [term] restored fd=0")
}

func TestLog_InitBadPath(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	require.Error(t, err)
}

func TestLog_Listener(t *testing.T) {
	var buf bytes.Buffer
	defer InitWriter(&buf)()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatConfig, "reloaded")

	event, ok := listener.Listen()().(LogEvent)
	require.True(t, ok)
	require.Contains(t, event.Payload, "[INFO] [config] reloaded")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"":        LevelDebug,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}
