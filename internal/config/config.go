// Package config provides configuration types, defaults and validation for
// modeline.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/modeline/internal/editor"
	"github.com/zjrosen/modeline/internal/log"
	"github.com/zjrosen/modeline/internal/render"
	"github.com/zjrosen/modeline/internal/tracing"
)

// Config holds all configuration options for modeline.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// EditorConfig holds editing behavior and display options.
type EditorConfig struct {
	SplitLines    bool   `mapstructure:"split_lines"`     // Newline moves text after the cursor to the new line
	JoinLines     bool   `mapstructure:"join_lines"`      // Backspace at column 0 joins with the previous line
	CursorGlyph   string `mapstructure:"cursor_glyph"`    // Marker drawn at the cursor in Insert mode
	ShowStatusBar bool   `mapstructure:"show_status_bar"` // Mode badge, command line and errors
	ShowHelp      bool   `mapstructure:"show_help"`       // Key help line in the TUI
}

// ThemeConfig holds color overrides as hex strings.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode   string `mapstructure:"mode"`
	Accent string `mapstructure:"accent"`
	Error  string `mapstructure:"error"`
	Muted  string `mapstructure:"muted"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"` // debug, info, warn, error
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // none, file, stdout, otlp
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	theme := render.DefaultTheme()
	trace := tracing.DefaultConfig()
	return Config{
		Editor: EditorConfig{
			SplitLines:    true,
			JoinLines:     true,
			CursorGlyph:   render.DefaultCursorGlyph,
			ShowStatusBar: true,
			ShowHelp:      true,
		},
		Theme: ThemeConfig{
			Accent: theme.Accent,
			Error:  theme.Error,
			Muted:  theme.Muted,
		},
		Log: LogConfig{
			Enabled: false,
			Path:    "modeline.log",
			Level:   "debug",
		},
		Tracing: TracingConfig{
			Enabled:      trace.Enabled,
			Exporter:     trace.Exporter,
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: trace.OTLPEndpoint,
			SampleRate:   trace.SampleRate,
		},
	}
}

// DefaultValues returns every known key in dot notation with its default.
// The value's dynamic type (bool, string, float64) is the key's type.
func DefaultValues() map[string]any {
	d := Defaults()
	return map[string]any{
		"editor.split_lines":     d.Editor.SplitLines,
		"editor.join_lines":      d.Editor.JoinLines,
		"editor.cursor_glyph":    d.Editor.CursorGlyph,
		"editor.show_status_bar": d.Editor.ShowStatusBar,
		"editor.show_help":       d.Editor.ShowHelp,
		"theme.mode":             d.Theme.Mode,
		"theme.accent":           d.Theme.Accent,
		"theme.error":            d.Theme.Error,
		"theme.muted":            d.Theme.Muted,
		"log.enabled":            d.Log.Enabled,
		"log.path":               d.Log.Path,
		"log.level":              d.Log.Level,
		"tracing.enabled":        d.Tracing.Enabled,
		"tracing.exporter":       d.Tracing.Exporter,
		"tracing.file_path":      d.Tracing.FilePath,
		"tracing.otlp_endpoint":  d.Tracing.OTLPEndpoint,
		"tracing.sample_rate":    d.Tracing.SampleRate,
	}
}

// EnvPrefix prefixes environment overrides: MODELINE_THEME_ACCENT sets
// theme.accent.
const EnvPrefix = "MODELINE"

// ApplyDefaults registers every default on v.
func ApplyDefaults(v *viper.Viper) {
	for key, value := range DefaultValues() {
		v.SetDefault(key, value)
	}
}

// BindEnv makes v read MODELINE_* overrides for every key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads a single config file on top of the defaults, applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	ApplyDefaults(v)
	BindEnv(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateEditor checks editor options.
func ValidateEditor(e EditorConfig) error {
	if strings.ContainsAny(e.CursorGlyph, "\r\n") {
		return fmt.Errorf("editor.cursor_glyph must not contain a line break")
	}
	return nil
}

// ValidateTheme checks theme mode and colors. Empty colors use defaults.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\" or empty, got %q", t.Mode)
	}
	colors := []struct{ name, value string }{
		{"accent", t.Accent},
		{"error", t.Error},
		{"muted", t.Muted},
	}
	for _, c := range colors {
		if c.value != "" && !hexColor.MatchString(c.value) {
			return fmt.Errorf("theme.%s: invalid hex color %q", c.name, c.value)
		}
	}
	return nil
}

// ValidateLog checks the log level.
func ValidateLog(l LogConfig) error {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t TracingConfig) error {
	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\" or \"otlp\", got %q", t.Exporter)
	}
	if math.IsNaN(t.SampleRate) || t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v", t.SampleRate)
	}
	return nil
}

// EditorOptions converts the editor section for editor.New.
func (c Config) EditorOptions() editor.Options {
	return editor.Options{
		SplitLines: c.Editor.SplitLines,
		JoinLines:  c.Editor.JoinLines,
	}
}

// RenderOptions converts the editor and theme sections for render.New.
// Empty colors fall back to the defaults.
func (c Config) RenderOptions() render.Options {
	theme := render.DefaultTheme()
	theme.Mode = c.Theme.Mode
	if c.Theme.Accent != "" {
		theme.Accent = c.Theme.Accent
	}
	if c.Theme.Error != "" {
		theme.Error = c.Theme.Error
	}
	if c.Theme.Muted != "" {
		theme.Muted = c.Theme.Muted
	}
	return render.Options{
		CursorGlyph:   c.Editor.CursorGlyph,
		ShowStatusBar: c.Editor.ShowStatusBar,
		Theme:         theme,
	}
}

// TracingOptions converts the tracing section, deriving the trace file
// path when none is set.
func (c Config) TracingOptions() tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = c.Tracing.Enabled
	out.Exporter = c.Tracing.Exporter
	out.FilePath = c.Tracing.FilePath
	out.OTLPEndpoint = c.Tracing.OTLPEndpoint
	out.SampleRate = c.Tracing.SampleRate
	if out.FilePath == "" && out.Exporter == "file" {
		out.FilePath = DefaultTracesFilePath()
	}
	return out
}

// DefaultConfigDir returns ~/.config/modeline.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".modeline")
	}
	return filepath.Join(home, ".config", "modeline")
}

// DefaultTracesFilePath returns the trace file used when none is configured.
func DefaultTracesFilePath() string {
	return filepath.Join(DefaultConfigDir(), "traces", "traces.jsonl")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# modeline configuration

editor:
  split_lines: true       # Enter moves the text after the cursor to a new line
  join_lines: true        # Backspace at column 0 joins the line with the one above
  cursor_glyph: "│"       # Marker drawn at the cursor in insert mode
  show_status_bar: true   # Mode badge, command line and error messages
  show_help: true         # Key help line below the status bar

# Colors are hex strings. Leave mode empty to detect the terminal background.
theme:
  mode: ""
  accent: "#7D56F4"
  error: "#FF8787"
  muted: "#696969"

# Debug log (also enabled by --debug or MODELINE_DEBUG=1)
log:
  enabled: false
  path: modeline.log
  level: debug            # debug, info, warn, error

# One span per session and per keystroke
tracing:
  enabled: false
  exporter: file          # none, file, stdout, otlp
  # file_path: ~/.config/modeline/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
