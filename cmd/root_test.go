package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/modeline/internal/config"
)

// isolate points HOME and the working directory at a fresh temp dir so
// no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = ""
		configForce = false
		keysStyle = "auto"
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoadConfig_Explicit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  join_lines: false\n"), 0o600))

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.False(t, cfg.Editor.JoinLines)
	assert.True(t, cfg.Editor.SplitLines)
}

func TestLoadConfig_ExplicitMissing(t *testing.T) {
	dir := isolate(t)

	_, err := loadConfig(viper.New(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_LocalBeforeUser(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, config.WriteDefaultConfig(filepath.Join(dir, ".config", "modeline", "config.yaml")))
	require.NoError(t, config.SetValue(filepath.Join(dir, ".config", "modeline", "config.yaml"), "theme.mode", "light"))
	require.NoError(t, config.SetValue(filepath.Join(dir, localConfigPath), "theme.mode", "dark"))

	v := viper.New()
	cfg, err := loadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme.Mode)
	assert.Equal(t, localConfigPath, v.ConfigFileUsed())
}

func TestLoadConfig_UserConfig(t *testing.T) {
	dir := isolate(t)
	userPath := filepath.Join(dir, ".config", "modeline", "config.yaml")
	require.NoError(t, config.SetValue(userPath, "editor.show_help", "false"))

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.False(t, cfg.Editor.ShowHelp)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("MODELINE_EDITOR_SPLIT_LINES", "false")

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.False(t, cfg.Editor.SplitLines)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "config.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate(), string(data))

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestConfigInit_DefaultPath(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".config", "modeline", "config.yaml"))
	require.NoError(t, err)
}

func TestConfigSet(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	out, err := execute(t, "config", "set", "--config", path, "theme.accent", "#00AAFF")
	require.NoError(t, err)
	assert.Contains(t, out, "theme.accent = #00AAFF")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#00AAFF", cfg.Theme.Accent)

	_, err = execute(t, "config", "set", "--config", path, "theme.accent", "blue")
	require.Error(t, err)
}

func TestConfigSet_CreatesUserConfig(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "config", "set", "log.level", "info")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, ".config", "modeline", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestKeys(t *testing.T) {
	isolate(t)

	out, err := execute(t, "keys", "--style", "notty")
	require.NoError(t, err)
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "Normal mode")
	assert.Contains(t, plain, "Unknown command")
	assert.Contains(t, plain, ":quit")
}

func TestRunEditor_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  mode: sepia\n"), 0o600))

	_, err := execute(t, "--config", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "theme.mode")
}
