package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger
type Options struct {
	Level      string // debug, info, warn or error
	JSON       bool
	File       string // empty disables file output
	MaxSizeMB  int    // megabytes before rotation
	MaxBackups int
	MaxAgeDays int
	Stdout     io.Writer // defaults to os.Stdout
}

// New creates a text logger on stdout at the given level
func New(level string) *slog.Logger {
	log, _ := NewWithOptions(Options{Level: level})
	return log
}

// NewWithOptions creates a logger writing to stdout and, if File is set,
// a size-rotated log file. The returned closer flushes and closes the file.
func NewWithOptions(opts Options) (*slog.Logger, io.Closer) {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	out := stdout
	if opts.File != "" {
		// lumberjack creates the file on first write but not its directory
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)

		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, rotator)
		closer = rotator
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(handler), closer
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
