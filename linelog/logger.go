// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Logger is a named, leveled logger writing to one or more sinks. Loggers are
// safe for concurrent use.
type Logger struct {
	name string

	registry *Registry

	level slog.LevelVar

	mu    sync.Mutex
	sinks []*Sink
}

func newLogger(r *Registry, name string) *Logger {
	l := &Logger{
		name:     name,
		registry: r,
	}
	l.level.Set(slog.Level(LevelDebug))
	return l
}

// Name returns the logger name used in the log lines.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum level accepted by the logger.
func (l *Logger) Level() Level {
	return Level(l.level.Level())
}

// SetLevel updates the minimum level accepted by the logger.
func (l *Logger) SetLevel(v Level) {
	l.level.Set(slog.Level(v))
}

// Enabled reports whether messages at the given level are accepted.
func (l *Logger) Enabled(v Level) bool {
	return v >= l.Level()
}

// Attach adds the sink to the logger's outputs. Returns false if the sink was
// already attached.
func (l *Logger) Attach(s *Sink) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.Contains(l.sinks, s) {
		return false
	}
	l.sinks = append(l.sinks, s)
	return true
}

// Sinks returns the sinks attached to the logger.
func (l *Logger) Sinks() []*Sink {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.sinks)
}

// Log writes msg at the given level to all attached sinks and registry
// mirrors. Errors from all outputs are joined; the message is not retried.
func (l *Logger) Log(level Level, msg string) error {
	if !l.Enabled(level) {
		return nil
	}
	return l.emit(&Record{
		Level:   level,
		Logger:  l.name,
		Time:    l.registry.now(),
		Message: msg,
	})
}

func (l *Logger) emit(r *Record) error {
	var errs []error
	for _, s := range l.Sinks() {
		if err := s.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	if err := l.registry.mirror(r.Message); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (l *Logger) Debug(msg string) error    { return l.Log(LevelDebug, msg) }
func (l *Logger) Info(msg string) error     { return l.Log(LevelInfo, msg) }
func (l *Logger) Warning(msg string) error  { return l.Log(LevelWarning, msg) }
func (l *Logger) Error(msg string) error    { return l.Log(LevelError, msg) }
func (l *Logger) Critical(msg string) error { return l.Log(LevelCritical, msg) }

// Logf formats the message only when the level is enabled.
func (l *Logger) Logf(level Level, format string, args ...any) error {
	if !l.Enabled(level) {
		return nil
	}
	return l.Log(level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) error {
	return l.Logf(LevelDebug, format, args...)
}

func (l *Logger) Infof(format string, args ...any) error {
	return l.Logf(LevelInfo, format, args...)
}

func (l *Logger) Warningf(format string, args ...any) error {
	return l.Logf(LevelWarning, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) error {
	return l.Logf(LevelError, format, args...)
}

func (l *Logger) Criticalf(format string, args ...any) error {
	return l.Logf(LevelCritical, format, args...)
}
