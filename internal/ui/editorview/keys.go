package editorview

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/modeline/internal/editor"
)

// KeyMap defines the keybindings shown in the help line. Every key is
// still delivered to the editor as bytes; the bindings only describe them
// and map arrow keys onto motions.
type KeyMap struct {
	// Normal mode
	Left    key.Binding
	Down    key.Binding
	Up      key.Binding
	Right   key.Binding
	Insert  key.Binding
	Command key.Binding

	// Insert mode
	Newline   key.Binding
	Backspace key.Binding
	Escape    key.Binding

	// Command mode
	Execute key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command (:q quits)"),
		),
		Newline: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new line"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "delete"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "normal"),
		),
		// Every other key, Esc and backspace included, is appended to the
		// command line. Enter is the only way out of command mode.
		Execute: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run (q or quit ends)"),
		),
	}
}

// motion returns the Normal-mode byte for an arrow or hjkl key.
func (k KeyMap) motion(msg tea.KeyMsg) (byte, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return 'h', true
	case key.Matches(msg, k.Down):
		return 'j', true
	case key.Matches(msg, k.Up):
		return 'k', true
	case key.Matches(msg, k.Right):
		return 'l', true
	}
	return 0, false
}

// modeHelp adapts a KeyMap to help.KeyMap for one editor mode.
type modeHelp struct {
	keys KeyMap
	mode editor.Mode
}

var _ help.KeyMap = modeHelp{}

// ShortHelp returns the bindings relevant to the current mode.
func (h modeHelp) ShortHelp() []key.Binding {
	switch h.mode {
	case editor.ModeInsert:
		return []key.Binding{h.keys.Newline, h.keys.Backspace, h.keys.Escape}
	case editor.ModeCommand:
		return []key.Binding{h.keys.Execute}
	default:
		return []key.Binding{h.keys.Left, h.keys.Down, h.keys.Up, h.keys.Right, h.keys.Insert, h.keys.Command}
	}
}

// FullHelp returns the bindings of every mode, one column per mode.
func (h modeHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.keys.Left, h.keys.Down, h.keys.Up, h.keys.Right, h.keys.Insert, h.keys.Command},
		{h.keys.Newline, h.keys.Backspace, h.keys.Escape},
		{h.keys.Execute},
	}
}

// keyBytes translates a key press into the bytes a raw terminal would send.
// Arrow keys become h/j/k/l in Normal mode and are dropped otherwise.
func keyBytes(msg tea.KeyMsg, mode editor.Mode, keys KeyMap) []byte {
	if mode == editor.ModeNormal {
		if b, ok := keys.motion(msg); ok {
			return []byte{b}
		}
	}

	var out []byte
	switch {
	case msg.Type == tea.KeyRunes:
		out = []byte(string(msg.Runes))
	case msg.Type == tea.KeySpace:
		out = []byte{' '}
	case msg.Type == tea.KeyEnter:
		out = []byte{'\n'}
	case msg.Type >= tea.KeyNull && msg.Type <= tea.KeyCtrlUnderscore, msg.Type == tea.KeyBackspace:
		// Control keys carry their byte value as their type.
		out = []byte{byte(msg.Type)}
	default:
		return nil
	}

	if msg.Alt {
		out = append([]byte{0x1b}, out...)
	}
	return out
}
