// Package applog initialises the global slog logger for the application.
// Call Init once at startup; all other packages use log/slog directly.
package applog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

const logFileName = "item-charges.log"

var debugMode atomic.Bool

// Init sets up the global slog logger writing text records to stdout and to
// a log file in dir (the temp dir when dir is empty or not writable). The
// returned function closes the file.
func Init(debug bool, dir string) (path string, closeFn func()) {
	debugMode.Store(debug)

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	writers := []io.Writer{os.Stdout}
	closeFn = func() {}
	path = logPath(dir)
	f, err := openLogFile(path)
	if err != nil && dir != "" {
		path = logPath("")
		f, err = openLogFile(path)
	}
	if err == nil {
		writers = append(writers, f)
		closeFn = func() { _ = f.Close() }
	} else {
		path = ""
	}

	h := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
	return path, closeFn
}

// IsDebug reports whether debug mode is active.
func IsDebug() bool {
	return debugMode.Load()
}

func logPath(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, logFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
