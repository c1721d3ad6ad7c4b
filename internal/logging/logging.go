// Package logging configures the process-wide slog loggers.
// It mirrors the dual-output setup used across the generator scripts:
// human-readable text on stderr for interactive runs and CI logs, plus an
// optional structured JSON log file with rotation for the watch variant.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Add trace and fatal level names.
var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

var fileWriter io.WriteCloser

// Init initializes the logging system. Human-readable output always goes to
// stderr; when filePath is non-empty a rotating JSON log is written as well.
// Safe to call again after flag parsing raises the level or adds a log file.
func Init(level slog.Level, filePath string) {
	Close()
	replaceLevel := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			lvl := a.Value.Any().(slog.Level)
			label, exists := levelNames[lvl]
			if !exists {
				label = lvl.String()
			}
			a.Value = slog.StringValue(label)
		}
		return a
	}

	humanHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	})

	if filePath == "" {
		slog.SetDefault(slog.New(humanHandler))
		return
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	jsonHandler := slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	})

	slog.SetDefault(slog.New(&teeHandler{handlers: []slog.Handler{humanHandler, jsonHandler}}))
}

// ForService returns a logger scoped to one pipeline component.
func ForService(service string) *slog.Logger {
	return slog.Default().With("service", service)
}

// Close flushes and closes the rotating log file if one was configured.
func Close() {
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
}

// teeHandler fans a record out to multiple handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: hs}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: hs}
}
