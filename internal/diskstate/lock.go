package diskstate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockFileName is created in the queue directory to serialize passes
// between processes.
const lockFileName = ".diskstate.lock"

// ErrLocked indicates another process holds the queue directory lock.
var ErrLocked = errors.New("queue directory is locked by another process")

// Lock is an exclusive hold on a queue directory.
type Lock struct {
	lock *flock.Flock
}

// AcquireLock takes the queue directory lock without blocking. It fails with
// ErrLocked when another process already holds it.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, lockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, &IOError{Op: "lock", Path: path, Err: err}
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return &Lock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.lock.Path() }

// Release drops the lock.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return &IOError{Op: "unlock", Path: l.lock.Path(), Err: err}
	}
	return nil
}
