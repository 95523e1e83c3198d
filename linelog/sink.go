// Copyright (c) 2024 BVK Chaitanya

package linelog

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Sink is an open, line-capped log file. Use Registry.Sink to get one; at most
// one Sink exists per path in a Registry.
type Sink struct {
	mu sync.Mutex

	path string

	opts SinkOptions

	level Level

	fp *os.File

	// nlines is an upper bound on the number of lines in the file. It only
	// decides when the file must be read back; the file is the truth.
	nlines int

	closed bool
}

func openSink(path string, opts *SinkOptions) (*Sink, error) {
	fp, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, opts.FileMode)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	nlines, err := countFileLines(path)
	if err != nil {
		fp.Close()
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	s := &Sink{
		path:   path,
		opts:   *opts,
		level:  Level(opts.Level.Level()),
		fp:     fp,
		nlines: nlines,
	}
	return s, nil
}

// Path returns the absolute path of the log file.
func (s *Sink) Path() string {
	return s.path
}

// MaxLines returns the line cap of the log file.
func (s *Sink) MaxLines() int {
	return s.opts.MaxLines
}

// Level returns the minimum level of records written to the log file.
func (s *Sink) Level() Level {
	return s.level
}

// Close closes the log file. Writes after Close fail with os.ErrClosed.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.fp == nil {
		return nil
	}
	err := s.fp.Close()
	s.fp = nil
	return err
}

// Write appends the record to the log file if its level is enabled for the
// sink and trims the file to MaxLines lines before returning. A failed
// record is not retried.
func (s *Sink) Write(r *Record) error {
	if r.Level < s.level {
		return nil
	}

	buf := getBuffer()
	defer bufs.Put(buf)
	r.AppendLine(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &IOError{Op: "append", Path: s.path, Err: os.ErrClosed}
	}
	if s.fp == nil {
		// Previous rewrite could not reopen the file.
		fp, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, s.opts.FileMode)
		if err != nil {
			return &IOError{Op: "open", Path: s.path, Err: err}
		}
		s.fp = fp
		s.nlines = s.opts.MaxLines + 1 // Unknown; force a recount below.
	}
	if _, err := s.fp.Write(buf.Bytes()); err != nil {
		return &IOError{Op: "append", Path: s.path, Err: err}
	}
	s.nlines++
	return s.enforce()
}

// enforce trims the log file to its last MaxLines lines. Caller must hold the
// sink lock.
func (s *Sink) enforce() error {
	if s.nlines <= s.opts.MaxLines {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return &IOError{Op: "read", Path: s.path, Err: err}
	}
	offset, nlines := tailOffset(data, s.opts.MaxLines)
	if offset == 0 {
		s.nlines = nlines
		return nil
	}
	if err := s.rewrite(data[offset:]); err != nil {
		return err
	}
	s.nlines = s.opts.MaxLines
	return nil
}

// rewrite atomically replaces the log file content with data and reopens the
// append handle on the new file. Caller must hold the sink lock.
func (s *Sink) rewrite(data []byte) (status error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return &IOError{Op: "rewrite", Path: s.path, Err: err}
	}
	defer func() {
		if status != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return &IOError{Op: "rewrite", Path: s.path, Err: err}
	}
	if err := tmp.Chmod(s.opts.FileMode); err != nil {
		return &IOError{Op: "rewrite", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &IOError{Op: "rewrite", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "rewrite", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &IOError{Op: "rewrite", Path: s.path, Err: err}
	}

	// Old handle points to the replaced inode.
	s.fp.Close()
	s.fp = nil
	fp, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, s.opts.FileMode)
	if err != nil {
		return &IOError{Op: "open", Path: s.path, Err: err}
	}
	s.fp = fp
	return nil
}

// tailOffset returns the byte offset where the last keep lines of data begin
// and the total number of lines in data. A trailing fragment without a
// newline counts as a line.
func tailOffset(data []byte, keep int) (offset, nlines int) {
	nlines = bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		nlines++
	}
	if nlines <= keep {
		return 0, nlines
	}
	for drop := nlines - keep; drop > 0; drop-- {
		offset += bytes.IndexByte(data[offset:], '\n') + 1
	}
	return offset, nlines
}

func countFileLines(path string) (int, error) {
	fp, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer fp.Close()

	var nlines int
	var last byte
	chunk := make([]byte, 32*1024)
	for {
		n, err := fp.Read(chunk)
		if n > 0 {
			nlines += bytes.Count(chunk[:n], []byte{'\n'})
			last = chunk[n-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if last != 0 && last != '\n' {
		nlines++
	}
	return nlines, nil
}
