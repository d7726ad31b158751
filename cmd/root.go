package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/modeline/internal/config"
	"github.com/zjrosen/modeline/internal/log"
	"github.com/zjrosen/modeline/internal/render"
	"github.com/zjrosen/modeline/internal/session"
	"github.com/zjrosen/modeline/internal/terminal"
	"github.com/zjrosen/modeline/internal/tracing"
	"github.com/zjrosen/modeline/internal/ui/editorview"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, so the
	// OSC 11 reply is not read as key input.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".modeline/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	configErr error

	rawFlag   bool
	debugFlag bool
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "modeline",
	Short: "A modal line editor for the terminal",
	Long: `modeline is a small vi-style editor with normal, insert and command modes.

Press i to insert text, Esc to return to normal mode, h/j/k/l to move and
:q or :quit followed by Enter to exit.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.modeline/config.yaml, then ~/.config/modeline/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"debug log file (default: log.path from config)")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false,
		"read raw bytes from the terminal instead of running the full-screen UI")
}

func initConfig() {
	cfg, configErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig resolves the config file, applies defaults and environment
// overrides (MODELINE_EDITOR_SPLIT_LINES and so on) and decodes the result.
// A missing config file is not an error.
func loadConfig(v *viper.Viper, explicit string) (config.Config, error) {
	config.ApplyDefaults(v)
	config.BindEnv(v)

	// Config lookup order:
	// 1. --config
	// 2. .modeline/config.yaml (current directory)
	// 3. ~/.config/modeline/config.yaml (user config)
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		v.AddConfigPath(config.DefaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Defaults(), fmt.Errorf("reading config: %w", err)
		}
	}

	var out config.Config
	if err := v.Unmarshal(&out); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return out, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// configPath returns the file `config set` and hot reload operate on.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" && fileExists(used) {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(config.DefaultConfigDir(), "config.yaml")
}

func runEditor(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := tracing.NewProvider(cfg.TracingOptions())
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := "tui"
	if rawFlag {
		driver = "raw"
	}
	sess := session.New(session.Config{
		Options: cfg.EditorOptions(),
		Tracer:  provider.Tracer(),
		Driver:  driver,
	})
	defer sess.Close()

	if rawFlag {
		return runRaw(ctx, sess)
	}
	return runTUI(ctx, sess)
}

// initLogging enables the log file when --debug, MODELINE_DEBUG or
// log.enabled asks for it. The returned cleanup is always safe to call.
func initLogging() (func(), error) {
	debug := debugFlag || os.Getenv("MODELINE_DEBUG") != "" || cfg.Log.Enabled
	if !debug {
		return func() {}, nil
	}

	path := logFile
	if path == "" {
		path = os.Getenv("MODELINE_LOG")
	}
	if path == "" {
		path = cfg.Log.Path
	}

	cleanup, err := log.Init(path)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	level, _ := log.ParseLevel(cfg.Log.Level)
	if debugFlag {
		level = log.LevelDebug
	}
	log.SetMinLevel(level)
	log.Info(log.CatConfig, "modeline starting", "version", version, "config", viper.ConfigFileUsed(), "log", path)
	return cleanup, nil
}

func runRaw(ctx context.Context, sess *session.Session) error {
	src, err := terminal.Open(os.Stdin)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.ErrorErr(log.CatTerm, "Restoring terminal failed", err)
		}
	}()

	renderer := render.New(os.Stdout, cfg.RenderOptions())
	if err := terminal.NewDriver(src, os.Stdout, sess, renderer).Run(ctx); err != nil {
		return fmt.Errorf("running raw driver: %w", err)
	}
	return nil
}

func runTUI(ctx context.Context, sess *session.Session) error {
	viewCfg := editorview.Config{
		Session:  sess,
		Renderer: render.New(os.Stdout, cfg.RenderOptions()),
		ShowHelp: cfg.Editor.ShowHelp,
	}

	if path := viper.ConfigFileUsed(); path != "" && fileExists(path) {
		w, err := config.NewWatcher(path, 0)
		if err != nil {
			log.ErrorErr(log.CatConfig, "Config watcher unavailable", err)
		} else if ch, err := w.Start(); err != nil {
			log.ErrorErr(log.CatConfig, "Config watcher unavailable", err)
			_ = w.Stop()
		} else {
			defer func() { _ = w.Stop() }()
			viewCfg.ConfigPath = path
			viewCfg.Reload = ch
		}
	}

	if debugFlag || os.Getenv("MODELINE_DEBUG") != "" {
		viewCfg.Logs = log.NewListener(ctx)
	}

	p := tea.NewProgram(
		editorview.New(viewCfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	if m, ok := final.(editorview.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
