// Package render draws a full editor frame from an editor.Snapshot.
// Frames are complete redraws: every call renders every line.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"github.com/zjrosen/modeline/internal/editor"
)

// DefaultCursorGlyph marks the insertion point in Insert mode.
const DefaultCursorGlyph = "│"

// Theme holds the colors used by the renderer, as hex strings.
type Theme struct {
	Accent string
	Error  string
	Muted  string

	// Mode forces "light" or "dark"; empty means detect from the terminal.
	Mode string
}

// DefaultTheme returns the built-in colors.
func DefaultTheme() Theme {
	return Theme{
		Accent: "#7D56F4",
		Error:  "#FF8787",
		Muted:  "#696969",
	}
}

// Options configure a Renderer.
type Options struct {
	CursorGlyph   string
	ShowStatusBar bool
	Theme         Theme

	// Profile overrides the detected color profile. termenv.Ascii yields
	// plain text, which is what tests use.
	Profile *termenv.Profile
}

// DefaultOptions returns a renderer with a status bar and the default theme.
func DefaultOptions() Options {
	return Options{
		CursorGlyph:   DefaultCursorGlyph,
		ShowStatusBar: true,
		Theme:         DefaultTheme(),
	}
}

// Status is the non-buffer text shown beneath the lines.
type Status struct {
	// Message is the last recoverable error, if any.
	Message string

	// Footer is an extra muted line such as key help or the debug log.
	Footer string
}

// Renderer turns snapshots into frames.
type Renderer struct {
	lg    *lipgloss.Renderer
	opts  Options
	width int

	// detectedDark is the terminal background seen before any theme mode
	// was forced. An empty mode returns to it.
	detectedDark bool

	cursor lipgloss.Style
	badge  map[editor.Mode]lipgloss.Style
	cmd    lipgloss.Style
	errMsg lipgloss.Style
	muted  lipgloss.Style
}

// New creates a renderer writing to w, which is only used to detect the
// terminal's color profile and background.
func New(w io.Writer, opts Options) *Renderer {
	var termOpts []termenv.OutputOption
	if opts.Profile != nil {
		termOpts = append(termOpts, termenv.WithProfile(*opts.Profile))
	}
	lg := lipgloss.NewRenderer(w, termOpts...)
	r := &Renderer{
		lg:           lg,
		opts:         Options{Profile: opts.Profile},
		detectedDark: lg.HasDarkBackground(),
	}
	r.SetOptions(opts)
	return r
}

// SetOptions replaces the renderer options and rebuilds the styles. The
// color profile chosen at construction is kept. An empty theme mode uses
// the background detected at construction.
func (r *Renderer) SetOptions(opts Options) {
	if opts.CursorGlyph == "" {
		opts.CursorGlyph = DefaultCursorGlyph
	}
	opts.Profile = r.opts.Profile
	r.opts = opts

	switch opts.Theme.Mode {
	case "light":
		r.lg.SetHasDarkBackground(false)
	case "dark":
		r.lg.SetHasDarkBackground(true)
	default:
		r.lg.SetHasDarkBackground(r.detectedDark)
	}

	accent := lipgloss.Color(opts.Theme.Accent)
	badge := r.lg.NewStyle().Bold(true).Padding(0, 1)
	r.cursor = r.lg.NewStyle().Foreground(accent).Bold(true)
	r.badge = map[editor.Mode]lipgloss.Style{
		editor.ModeNormal:  badge.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(opts.Theme.Muted)),
		editor.ModeInsert:  badge.Foreground(lipgloss.Color("#FFFFFF")).Background(accent),
		editor.ModeCommand: badge.Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color(opts.Theme.Error)),
	}
	r.cmd = r.lg.NewStyle().Foreground(accent)
	r.errMsg = r.lg.NewStyle().Foreground(lipgloss.Color(opts.Theme.Error)).Bold(true)
	r.muted = r.lg.NewStyle().Foreground(lipgloss.Color(opts.Theme.Muted))
}

// Options returns the current options.
func (r *Renderer) Options() Options { return r.opts }

// SetWidth sets the clipping width. Zero disables clipping.
func (r *Renderer) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	r.width = width
}

// Frame renders the full screen. Lines are joined with "\n".
func (r *Renderer) Frame(snap editor.Snapshot, status Status) string {
	rows := make([]string, 0, len(snap.Lines)+2)
	for i, line := range snap.Lines {
		rows = append(rows, r.line(snap, i, line))
	}
	if r.opts.ShowStatusBar {
		rows = append(rows, r.statusBar(snap, status))
	}
	if status.Footer != "" {
		rows = append(rows, r.clip(r.muted.Render(status.Footer)))
	}
	return strings.Join(rows, "\n")
}

// line renders one buffer row. The cursor glyph is drawn only in Insert
// mode, at the cursor's byte column.
func (r *Renderer) line(snap editor.Snapshot, row int, line string) string {
	if snap.Mode != editor.ModeInsert || row != snap.Cursor.Row {
		return r.clip(line)
	}
	col := min(max(snap.Cursor.Col, 0), len(line))
	return r.clip(line[:col] + r.cursor.Render(r.opts.CursorGlyph) + line[col:])
}

func (r *Renderer) statusBar(snap editor.Snapshot, status Status) string {
	badge, ok := r.badge[snap.Mode]
	if !ok {
		badge = r.badge[editor.ModeNormal]
	}
	parts := []string{badge.Render(snap.Mode.String())}

	switch {
	case snap.Mode == editor.ModeCommand:
		parts = append(parts, r.cmd.Render(":"+snap.Command))
	case status.Message != "":
		parts = append(parts, r.errMsg.Render(status.Message))
	}
	return r.clip(strings.Join(parts, " "))
}

func (r *Renderer) clip(s string) string {
	if r.width <= 0 {
		return s
	}
	return truncate.String(s, uint(r.width))
}
