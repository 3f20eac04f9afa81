package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu   sync.Mutex
	file *os.File
)

// Init initializes the global logger.
// It configures the default slog logger to write to the specified path (or stderr)
// at the specified level. Stdout is left to the tool's own output.
//
// path: Log file path. If empty, logs to stderr.
// level: Log level ("debug", "info", "warn", "error"). Defaults to "warn".
func Init(path string, level string) error {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stderr
	if path != "" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		closeLocked()
		file = f
		w = f
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
	return nil
}

// Close releases the log file opened by Init, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
