package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValue_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(configPath, "theme.accent", "#FF0000"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme:")
	assert.Contains(t, string(data), `accent: "#FF0000"`)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", cfg.Theme.Accent)
}

func TestSetValue_PreservesComments(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SetValue(configPath, "editor.join_lines", "false"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# modeline configuration")
	assert.Contains(t, content, "join_lines: false")
	assert.Contains(t, content, "# Backspace at column 0 joins the line with the one above")
	assert.Contains(t, content, "split_lines: true")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.False(t, cfg.Editor.JoinLines)
	assert.True(t, cfg.Editor.SplitLines)
}

func TestSetValue_AddsMissingSection(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("editor:\n  split_lines: false\n"), 0o600))

	require.NoError(t, SetValue(configPath, "tracing.sample_rate", "0.25"))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.False(t, cfg.Editor.SplitLines)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRate, 1e-9)
}

func TestSetValue_EmptySection(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n"), 0o600))

	require.NoError(t, SetValue(configPath, "log.level", "warn"))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestSetValue_WholeNumberStaysFloat(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SetValue(configPath, "tracing.sample_rate", "1"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sample_rate: 1.0")
}

func TestSetValue_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "unknown key", key: "editor.wrap", value: "true", wantErr: "unknown config key"},
		{name: "section only", key: "editor", value: "x", wantErr: "unknown config key"},
		{name: "bad bool", key: "editor.split_lines", value: "maybe", wantErr: "expected true or false"},
		{name: "bad number", key: "tracing.sample_rate", value: "lots", wantErr: "expected a number"},
		{name: "fails validation", key: "theme.mode", value: "sepia", wantErr: "theme.mode"},
		{name: "out of range", key: "tracing.sample_rate", value: "2", wantErr: "sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, "config.yaml")
			require.NoError(t, WriteDefaultConfig(configPath))

			err := SetValue(configPath, tt.key, tt.value)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)

			// The file is untouched and no temp files are left behind.
			data, err := os.ReadFile(configPath)
			require.NoError(t, err)
			assert.Equal(t, DefaultConfigTemplate(), string(data))
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestSetValue_RejectsNonMapping(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("theme: dark\n"), 0o600))

	err := SetValue(configPath, "theme.mode", "dark")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")
}

func TestKeys_Sorted(t *testing.T) {
	keys := Keys()
	require.Len(t, keys, len(DefaultValues()))
	assert.IsNonDecreasing(t, keys)
	assert.Contains(t, keys, "editor.split_lines")
}
