// Copyright (c) 2024 BVK Chaitanya

package linelog

import "fmt"

// IOError reports a failure to open, append to or rewrite a log file. The
// underlying error is usually an *os.PathError.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("log file %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
