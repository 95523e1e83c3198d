// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"fmt"
	"log/slog"
	"os"
)

// DefaultMaxLines is the line cap used when MaxLines is left zero.
const DefaultMaxLines = 2000

// SinkOptions configure a Sink when it is created. They have no effect on a
// Sink that already exists for the path.
type SinkOptions struct {
	// Level is the minimum level of records written to the file. It is read
	// once when the sink is created. Nil means LevelDebug.
	Level slog.Leveler

	// MaxLines is the maximum number of lines kept in the file. Zero selects
	// DefaultMaxLines; negative values are rejected.
	MaxLines int

	// FileMode is the permissions used when the log file is created.
	FileMode os.FileMode

	// Mirror when true, calls Registry.MirrorStdout once the sink is created.
	Mirror bool
}

func (v *SinkOptions) setDefaults() {
	if v.Level == nil {
		v.Level = LevelDebug
	}
	if v.MaxLines == 0 {
		v.MaxLines = DefaultMaxLines
	}
	if v.FileMode == 0 {
		v.FileMode = 0644
	}
}

func (v *SinkOptions) check() error {
	if v.MaxLines < 0 {
		return fmt.Errorf("max lines must be positive, got %d: %w", v.MaxLines, os.ErrInvalid)
	}
	return nil
}

// Options configure the Logger returned by Registry.Logger.
type Options struct {
	// Level is the minimum level accepted by the logger. It is also used as the
	// sink level when the sink for the path is created by this call. Nil means
	// LevelDebug.
	Level slog.Leveler

	// MaxLines is passed to the sink on creation.
	MaxLines int

	// Mirror is passed to the sink on creation.
	Mirror bool
}

// DefaultOptions returns the options get-a-logger callers usually want: all
// levels, the default line cap and no mirroring.
func DefaultOptions() *Options {
	return &Options{
		Level:    LevelDebug,
		MaxLines: DefaultMaxLines,
	}
}

func (v *Options) minLevel() Level {
	if v.Level == nil {
		return LevelDebug
	}
	return Level(v.Level.Level())
}
