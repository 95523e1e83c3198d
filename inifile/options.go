// Copyright (c) 2025 BVK Chaitanya

package inifile

import (
	"fmt"
	"os"
)

// Logger receives a debug message for every operation on a config file.
// *linelog.Logger satisfies this interface.
type Logger interface {
	Debug(msg string) error
}

type nopLogger struct{}

func (nopLogger) Debug(string) error { return nil }

type options struct {
	logger Logger

	fileMode os.FileMode
}

type Option interface {
	apply(*options) error
}

type optionFunc func(*options) error

func (v optionFunc) apply(opts *options) error {
	return v(opts)
}

// WithLogger option sets the logger used to trace reads and updates of the
// config file.
func WithLogger(l Logger) Option {
	return optionFunc(func(opts *options) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil: %w", os.ErrInvalid)
		}
		opts.logger = l
		return nil
	})
}

// FileMode option sets the permissions for the config file when it is
// created or rewritten.
func FileMode(mode os.FileMode) Option {
	return optionFunc(func(opts *options) error {
		if mode == 0 || mode&^os.ModePerm != 0 {
			return fmt.Errorf("invalid config file mode %v: %w", mode, os.ErrInvalid)
		}
		opts.fileMode = mode
		return nil
	})
}
