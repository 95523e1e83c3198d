// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// Registry owns the sinks and loggers for a set of log files. A process
// normally creates one Registry at startup and passes it around; Default
// returns a shared instance for code that cannot.
type Registry struct {
	mu sync.Mutex

	sinks map[string]*Sink

	loggers map[string]*Logger

	mirrorMu sync.Mutex
	mirrors  []io.Writer

	now func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sinks:   make(map[string]*Sink),
		loggers: make(map[string]*Logger),
		now:     time.Now,
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry. It is created on first use and
// never closed.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func fileKey(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("log file path cannot be empty: %w", os.ErrInvalid)
	}
	abspath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not determine absolute path for %q: %w", path, err)
	}
	return abspath, nil
}

// Sink returns the sink for the log file at path, creating and registering it
// on the first call. Options are only used on the first call for a path;
// later calls return the existing sink unchanged.
func (r *Registry) Sink(path string, opts *SinkOptions) (*Sink, error) {
	key, err := fileKey(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if s, ok := r.sinks[key]; ok {
		r.mu.Unlock()
		return s, nil
	}

	var sopts SinkOptions
	if opts != nil {
		sopts = *opts
	}
	if err := sopts.check(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	sopts.setDefaults()

	s, err := openSink(key, &sopts)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.sinks[key] = s
	r.mu.Unlock()

	if sopts.Mirror {
		r.MirrorStdout()
	}
	return s, nil
}

// Logger returns the logger for the log file at path. Repeated calls for the
// same path return the same *Logger. The logger level is always updated to
// opts.Level; the sink is created with opts on the first call only. A nil
// opts is the same as DefaultOptions().
func (r *Registry) Logger(path string, opts *Options) (*Logger, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	key, err := fileKey(path)
	if err != nil {
		return nil, err
	}

	sink, err := r.Sink(path, &SinkOptions{
		Level:    opts.Level,
		MaxLines: opts.MaxLines,
		Mirror:   opts.Mirror,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	l, ok := r.loggers[key]
	if !ok {
		l = newLogger(r, "logger_"+path)
		r.loggers[key] = l
	}
	r.mu.Unlock()

	l.SetLevel(opts.minLevel())
	l.Attach(sink)
	return l, nil
}

// MirrorStdout makes every logger of the registry echo its messages to the
// standard output.
func (r *Registry) MirrorStdout() {
	r.AddMirror(os.Stdout)
}

// AddMirror adds w to the writers that receive every message accepted by any
// logger of the registry. Adding the same writer again has no effect.
func (r *Registry) AddMirror(w io.Writer) {
	r.mirrorMu.Lock()
	defer r.mirrorMu.Unlock()

	if !slices.Contains(r.mirrors, w) {
		r.mirrors = append(r.mirrors, w)
	}
}

// mirror writes the bare message to all mirror writers.
func (r *Registry) mirror(msg string) error {
	r.mirrorMu.Lock()
	defer r.mirrorMu.Unlock()

	if len(r.mirrors) == 0 {
		return nil
	}
	line := msg + "\n"
	var errs []error
	for _, w := range r.mirrors {
		if _, err := io.WriteString(w, line); err != nil {
			errs = append(errs, fmt.Errorf("could not write to log mirror: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes all sinks of the registry and forgets them along with their
// loggers. Loggers obtained before Close fail their writes with os.ErrClosed;
// later Sink and Logger calls open the files again.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for path, s := range r.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, &IOError{Op: "close", Path: path, Err: err})
		}
	}
	clear(r.sinks)
	clear(r.loggers)
	return errors.Join(errs...)
}
