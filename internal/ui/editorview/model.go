// Package editorview is the Bubble Tea front end of the editor. It turns
// key messages into the bytes a raw terminal would deliver, feeds them to
// a session and renders the session's snapshot.
package editorview

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/modeline/internal/config"
	"github.com/zjrosen/modeline/internal/log"
	"github.com/zjrosen/modeline/internal/render"
	"github.com/zjrosen/modeline/internal/session"
)

// Config wires a Model to its collaborators.
type Config struct {
	Session  *session.Session
	Renderer *render.Renderer
	ShowHelp bool

	// ConfigPath and Reload enable hot reload: each signal on Reload
	// re-reads ConfigPath. Both may be empty.
	ConfigPath string
	Reload     <-chan struct{}

	// Logs, when set, shows the latest log entry in place of the help line.
	Logs *log.LogListener
}

// ReloadMsg carries a re-read configuration.
type ReloadMsg struct {
	Config config.Config
	Err    error
}

// Model is the Bubble Tea model for one editing session.
type Model struct {
	sess     *session.Session
	renderer *render.Renderer
	keys     KeyMap
	help     help.Model
	showHelp bool

	configPath string
	reload     <-chan struct{}
	logs       *log.LogListener
	lastLog    string

	err error
}

// New creates the editor view.
func New(cfg Config) Model {
	return Model{
		sess:       cfg.Session,
		renderer:   cfg.Renderer,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		showHelp:   cfg.ShowHelp,
		configPath: cfg.ConfigPath,
		reload:     cfg.Reload,
		logs:       cfg.Logs,
	}
}

// Init starts the reload and log listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.waitForReload(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.renderer.SetWidth(msg.Width)
		m.help.Width = msg.Width
		log.Debug(log.CatUI, "window resized", "width", msg.Width, "height", msg.Height)
		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			log.ErrorErr(log.CatConfig, "Config reload failed", msg.Err, "path", m.configPath)
			return m, m.waitForReload()
		}
		m.renderer.SetOptions(msg.Config.RenderOptions())
		m.showHelp = msg.Config.Editor.ShowHelp
		log.Info(log.CatConfig, "Config reloaded", "path", m.configPath)
		return m, m.waitForReload()

	case log.LogEvent:
		m.lastLog = strings.TrimSpace(msg.Payload)
		if m.logs != nil {
			return m, m.logs.Listen()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess.Ended() {
		return m, tea.Quit
	}

	p := keyBytes(msg, m.sess.Snapshot().Mode, m.keys)
	if len(p) == 0 {
		log.Debug(log.CatInput, "key ignored", "key", msg.String())
		return m, nil
	}

	out, err := m.sess.FeedBytes(p)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	if out.IsEnd() {
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	return m.renderer.Frame(m.sess.Snapshot(), render.Status{
		Message: m.sess.LastError(),
		Footer:  m.footer(),
	})
}

func (m Model) footer() string {
	if m.logs != nil && m.lastLog != "" {
		return m.lastLog
	}
	if !m.showHelp {
		return ""
	}
	return m.help.View(modeHelp{keys: m.keys, mode: m.sess.Snapshot().Mode})
}

// Err returns the invariant failure that stopped the session, if any.
func (m Model) Err() error { return m.err }

// Session returns the underlying session.
func (m Model) Session() *session.Session { return m.sess }

func (m Model) waitForReload() tea.Cmd {
	if m.reload == nil || m.configPath == "" {
		return nil
	}
	ch, path := m.reload, m.configPath
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		cfg, err := config.Load(path)
		return ReloadMsg{Config: cfg, Err: err}
	}
}
