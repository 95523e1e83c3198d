// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Level is the severity of a log record. Values match the log/slog levels so
// that levels convert without a table.
type Level int

const (
	LevelDebug    Level = Level(slog.LevelDebug)
	LevelInfo     Level = Level(slog.LevelInfo)
	LevelWarning  Level = Level(slog.LevelWarn)
	LevelError    Level = Level(slog.LevelError)
	LevelCritical Level = Level(slog.LevelError + 4)
)

// Level implements slog.Leveler.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name into a Level. Names are case insensitive
// and WARN is accepted as an alias for WARNING.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	}
	return 0, fmt.Errorf("unknown log level %q: %w", s, os.ErrInvalid)
}

// normalize rounds an arbitrary slog level down to one of the five levels.
func normalize(v slog.Level) Level {
	switch {
	case v >= slog.Level(LevelCritical):
		return LevelCritical
	case v >= slog.LevelError:
		return LevelError
	case v >= slog.LevelWarn:
		return LevelWarning
	case v >= slog.LevelInfo:
		return LevelInfo
	}
	return LevelDebug
}
