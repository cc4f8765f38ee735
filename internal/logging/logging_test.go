package logging

import (
	"os"
	"testing"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"debug", int(log.LevelDebug)},
		{"INFO", int(log.LevelInfo)},
		{"", int(log.LevelInfo)},
		{"warning", int(log.LevelWarn)},
		{"error", int(log.LevelError)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_InvalidOutput(t *testing.T) {
	_, err := New(Options{Output: "syslog"})
	assert.Error(t, err)
}

func TestNew_NoneOutput(t *testing.T) {
	h, err := New(Options{Output: OutputNone, Level: "debug"})
	require.NoError(t, err)
	h.Info("msg", "hello", "component", "test")
	assert.NoError(t, h.Close())
}

func TestNew_OutputModes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name        string
		opts        Options
		disableFile bool
		console     bool
		target      string
	}{
		{"none", Options{Output: OutputNone}, true, false, ""},
		{"stderr", Options{Output: OutputStderr}, true, true, "stderr"},
		{"file", Options{Output: OutputFile, Directory: dir, Name: "dash"}, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.opts)
			require.NoError(t, err)
			defer h.Close()

			cfg := h.GetConfig()
			assert.Equal(t, tt.disableFile, cfg.DisableFile)
			assert.Equal(t, tt.console, cfg.EnableConsole)
			if tt.target != "" {
				assert.Equal(t, tt.target, cfg.ConsoleTarget)
			}
			if !tt.disableFile {
				assert.Equal(t, dir, cfg.Directory)
				assert.Equal(t, "dash", cfg.Name)
			}
		})
	}
}

func TestNew_FileOutputWritesToDirectory(t *testing.T) {
	dir := t.TempDir()
	h, err := New(Options{Output: OutputFile, Directory: dir, Name: "dash", Level: "info"})
	require.NoError(t, err)
	h.Info("msg", "hello", "component", "test")
	require.NoError(t, h.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Debug("msg", "ignored")
	l.Error("msg", "ignored", "error", assert.AnError)
}
