// Package logging wires the key/value logger used across syslogdash.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/log"
)

// Logger is the subset of the key/value logger the rest of the code depends on.
// Calls take a message followed by alternating keys and values:
//
//	logger.Warn("msg", "Stats fetch failed", "error", err)
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

// Output modes
const (
	OutputFile   = "file"
	OutputStderr = "stderr"
	OutputNone   = "none"
)

// Options configure a logger
type Options struct {
	Output    string // file, stderr or none
	Directory string
	Name      string
	Level     string // debug, info, warn or error
}

// Handle owns a running logger and shuts it down on Close
type Handle struct {
	*log.Logger
}

// Close flushes and stops the logger
func (h *Handle) Close() error {
	return h.Logger.Shutdown(2 * time.Second)
}

// New creates and initializes a logger from options
func New(opts Options) (*Handle, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	args := []string{fmt.Sprintf("level=%d", level)}

	switch opts.Output {
	case OutputNone:
		args = append(args, "disable_file=true", "enable_console=false")
	case OutputStderr:
		args = append(args, "disable_file=true", "enable_console=true", "console_target=stderr")
	case OutputFile, "":
		dir := opts.Directory
		if dir == "" {
			dir = DefaultDirectory()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		name := opts.Name
		if name == "" {
			name = "syslogdash"
		}
		args = append(args,
			"enable_console=false",
			fmt.Sprintf("directory=%s", dir),
			fmt.Sprintf("name=%s", name))
	default:
		return nil, fmt.Errorf("invalid log output mode: %s", opts.Output)
	}

	logger := log.NewLogger()
	if err := logger.ApplyConfigString(args...); err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	if err := logger.Start(); err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}
	return &Handle{Logger: logger}, nil
}

// ParseLevel maps a level name to the logger's numeric level
func ParseLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info", "":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// DefaultDirectory returns the per-user directory for log files
func DefaultDirectory() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "syslogdash")
	}
	return filepath.Join(os.TempDir(), "syslogdash")
}

type nopLogger struct{}

func (nopLogger) Debug(args ...any) {}
func (nopLogger) Info(args ...any)  {}
func (nopLogger) Warn(args ...any)  {}
func (nopLogger) Error(args ...any) {}

// Nop returns a logger that discards everything
func Nop() Logger {
	return nopLogger{}
}
