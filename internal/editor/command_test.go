package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand_Quit(t *testing.T) {
	for _, s := range []string{"q", "quit"} {
		a, err := ParseCommand(s)
		require.NoError(t, err, s)
		require.Equal(t, ActionQuit, a)
	}
}

// TestParseCommand_ExactMatchOnly verifies no prefix, case or argument
// matching takes place.
func TestParseCommand_ExactMatchOnly(t *testing.T) {
	for _, s := range []string{"", "qu", "qui", "Q", "QUIT", "q!", "quit ", " q", "wq", "bogus"} {
		a, err := ParseCommand(s)
		require.Error(t, err, s)
		require.Equal(t, ActionNone, a)

		var unknown *UnknownCommandError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, s, unknown.Command)
		require.Equal(t, "Unknown command", err.Error())
	}
}

func TestCommandBuffer(t *testing.T) {
	var c CommandBuffer
	require.Equal(t, "", c.String())

	c.Append('w')
	c.Append('q')
	require.Equal(t, "wq", c.String())
	require.Equal(t, 2, c.Len())

	c.Reset()
	require.Equal(t, "", c.String())
	require.Equal(t, 0, c.Len())
}

func TestMode_String(t *testing.T) {
	require.Equal(t, "NORMAL", ModeNormal.String())
	require.Equal(t, "INSERT", ModeInsert.String())
	require.Equal(t, "COMMAND", ModeCommand.String())
	require.Equal(t, "UNKNOWN", Mode(42).String())
}
