// Copyright (c) 2024 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"os"

	"github.com/bvk/pdfscrape/linelog"
)

// DefaultLogFile is the log file used when -log-file is not given.
const DefaultLogFile = "pdf_to_csv.log"

type LogFlags struct {
	logFile  string
	logLevel string
	maxLines int
	mirror   bool
}

func (f *LogFlags) check() error {
	if len(f.logFile) == 0 {
		return fmt.Errorf("log file path cannot be empty: %w", os.ErrInvalid)
	}
	if f.maxLines < 1 {
		return fmt.Errorf("max lines must be positive: %w", os.ErrInvalid)
	}
	return nil
}

// SetFlags adds the logging flags to fset. The mirror argument is the default
// for the -mirror flag.
func (f *LogFlags) SetFlags(fset *flag.FlagSet, mirror bool) {
	fset.StringVar(&f.logFile, "log-file", DefaultLogFile, "Path to the log file")
	fset.StringVar(&f.logLevel, "log-level", "debug", "Minimum log level (debug, info, warning, error, critical)")
	fset.IntVar(&f.maxLines, "max-lines", linelog.DefaultMaxLines, "Maximum number of lines kept in the log file")
	fset.BoolVar(&f.mirror, "mirror", mirror, "When true, log messages are also printed to stdout")
}

// GetLogger returns the logger for the log file from the registry.
func (f *LogFlags) GetLogger(r *linelog.Registry) (*linelog.Logger, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	level, err := linelog.ParseLevel(f.logLevel)
	if err != nil {
		return nil, err
	}
	return r.Logger(f.logFile, &linelog.Options{
		Level:    level,
		MaxLines: f.maxLines,
		Mirror:   f.mirror,
	})
}
