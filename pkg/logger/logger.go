// Package logger provides a small structured logging facade over slog.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger defines the logging interface used across the service.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// Named returns a logger tagged with a component name.
	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Time(key string, val time.Time) Field         { return Field{Key: key, Value: val} }
func Any(key string, val any) Field                { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = slog.Any(f.Key, f.Value)
	}
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

func (s *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelDebug, msg, fields)
}

func (s *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelInfo, msg, fields)
}

func (s *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelWarn, msg, fields)
}

func (s *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
}

func (s *slogLogger) Named(name string) Logger {
	return &slogLogger{l: s.l.With(slog.String("component", name))}
}

var (
	global   Logger
	levelVar slog.LevelVar
)

// Init initializes the global logger writing text lines to stdout at info level.
func Init() error {
	levelVar.Set(slog.LevelInfo)
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &levelVar})
	global = &slogLogger{l: slog.New(h)}
	return nil
}

// Get returns the global logger.
func Get() Logger {
	if global == nil {
		panic("logger not initialized; call logger.Init first")
	}
	return global
}

// Named creates a named logger from the global one.
func Named(name string) Logger {
	return Get().Named(name)
}

// SetLevel updates the level of the global handler.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
