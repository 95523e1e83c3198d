// Copyright (c) 2024 BVK Chaitanya

// Package dirlock serializes processes working on the same directory through
// a pid lock file.
package dirlock

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nightlyone/lockfile"
)

// RetryInterval is the wait between lock attempts.
var RetryInterval = 100 * time.Millisecond

// Lock is a lock file held by the current process.
type Lock struct {
	flock lockfile.Lockfile
}

// Acquire takes the lock file at path. When the lock is held by another live
// process it retries for up to timeout; zero timeout tries once.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not determine lock file %q absolute path: %w", path, err)
	}
	flock, err := lockfile.New(abspath)
	if err != nil {
		return nil, fmt.Errorf("could not create lock file %q: %w", abspath, err)
	}
	if err := retryTimeout(ctx, RetryInterval, timeout, flock.TryLock); err != nil {
		if owner, oerr := flock.GetOwner(); oerr == nil {
			return nil, fmt.Errorf("could not get lock on file %q held by pid %d: %w", abspath, owner.Pid, err)
		}
		return nil, fmt.Errorf("could not get lock on file %q: %w", abspath, err)
	}
	return &Lock{flock: flock}, nil
}

// Path returns the absolute path of the lock file.
func (l *Lock) Path() string {
	return string(l.flock)
}

// Unlock releases the lock and removes the lock file.
func (l *Lock) Unlock() error {
	return l.flock.Unlock()
}

// sleep blocks the caller for given timeout duration. Returns early if the
// input context is canceled.
func sleep(ctx context.Context, d time.Duration) {
	sctx, scancel := context.WithTimeout(ctx, d)
	<-sctx.Done()
	scancel()
}

// retryTimeout runs f till it succeeds, the context is canceled or the
// timeout expires, and returns the last error from f.
func retryTimeout(ctx context.Context, interval, timeout time.Duration, f func() error) (err error) {
	sctx, scancel := context.WithTimeout(ctx, timeout)
	defer scancel()

	for err = f(); err != nil && context.Cause(sctx) == nil; err = f() {
		sleep(sctx, interval)
	}
	return
}
