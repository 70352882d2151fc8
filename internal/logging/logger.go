// Package logging sets up structured logging for stamina. The terminal is
// owned by the UI while practicing, so logs go to a file as JSON lines.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/stamina/internal/event"
)

// Log levels accepted by ParseLevel.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Discard is the log path that disables logging.
const Discard = "-"

// Logger bundles a slog.Logger with the file it writes to.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a JSON logger appending to path. An empty path logs to
// stderr; Discard drops everything.
func New(path, level string) (*Logger, error) {
	var writer io.Writer
	var file *os.File
	switch path {
	case "":
		writer = os.Stderr
	case Discard:
		writer = io.Discard
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writer = f
		file = f
	}
	return &Logger{
		Logger: NewWithWriter(writer, level),
		file:   file,
	}, nil
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel converts a level name to slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level is one of the known names.
func ValidLevel(level string) bool {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Attach logs every session event: completions and closes at INFO, the
// rest at DEBUG.
func Attach(bus *event.Bus, logger *slog.Logger) uint64 {
	return bus.SubscribeAll(func(e event.Event) {
		switch ev := e.(type) {
		case event.RunCompletedEvent:
			logger.Info("run completed",
				"difficulty", ev.Run.Difficulty,
				"length", ev.Run.SequenceLength,
				"typed", ev.Summary.CharactersTyped,
				"errors", ev.Summary.ErrorsCount,
				"elapsed_ms", ev.Summary.ElapsedMs,
				"cpm", ev.Summary.Rate)
		case event.SessionClosedEvent:
			logger.Info("session closed", "completed_runs", ev.CompletedRuns)
		case event.SequenceGeneratedEvent:
			logger.Debug("sequence generated", "difficulty", ev.Difficulty, "sequence", ev.Sequence.String())
		case event.KeystrokeEvent:
			logger.Debug("keystroke",
				"expected", string(ev.Expected),
				"typed", string(ev.Typed),
				"correct", ev.Correct,
				"cursor", ev.Cursor)
		default:
			logger.Debug("session event", "type", e.EventType())
		}
	})
}
