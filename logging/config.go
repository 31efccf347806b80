package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// RotatingLogger writes log output to one file per ISO week and removes
// files older than the retention window.
type RotatingLogger struct {
	logDir      string
	retention   time.Duration
	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
}

// NewRotatingLogger creates a rotating logger keeping retentionWeeks weeks
// of files in logDir.
func NewRotatingLogger(logDir string, retentionWeeks int) *RotatingLogger {
	return &RotatingLogger{
		logDir:    logDir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
	}
}

// weekKey returns the ISO-week key in YYYY-Www format.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends to the current week's file, rotating when the week changes.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(time.Now())
	if rl.currentFile == nil || rl.currentWeek != week {
		if err := rl.rotate(week); err != nil {
			return 0, err
		}
	}

	return rl.currentFile.Write(p)
}

// rotate opens the file for targetWeek; caller must hold the lock.
func (rl *RotatingLogger) rotate(targetWeek string) error {
	if rl.currentFile != nil {
		if err := rl.currentFile.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
	}

	logPath := filepath.Join(rl.logDir, fmt.Sprintf("app-%s.log", targetWeek))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rl.currentFile = file
	rl.currentWeek = targetWeek
	return nil
}

// CleanupOldLogs removes log files older than the retention window.
func (rl *RotatingLogger) CleanupOldLogs() error {
	matches, err := filepath.Glob(filepath.Join(rl.logDir, "app-*.log"))
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-rl.retention)
	sort.Strings(matches)
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(match); err != nil {
				slog.Warn("Failed to remove old log file", "file", match, "error", err)
			}
		}
	}
	return nil
}

// Close closes the current log file.
func (rl *RotatingLogger) Close() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.currentFile != nil {
		return rl.currentFile.Close()
	}
	return nil
}

// SetupLogger configures slog to log to the console and, when logDir is not
// empty, to a weekly rotating file. Console output is text, file output is
// JSON for easier parsing.
func SetupLogger(logDir string) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if logDir == "" {
		return slog.New(consoleHandler)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory, logging to console only", "error", err)
		return logger
	}

	rotating := NewRotatingLogger(logDir, 4)
	if err := rotating.CleanupOldLogs(); err != nil {
		slog.Warn("Failed to cleanup old logs", "error", err)
	}

	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}

// multiHandler fans one record out to multiple slog handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
