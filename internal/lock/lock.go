// Package lock keeps two runs from working on the same report directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another run holds the report directory lock")

// Lock is an acquired run lock.
type Lock struct {
	flk *flock.Flock
}

// PathFor returns the lock file guarding dir. It lives next to the
// directory, never inside it.
func PathFor(dir string) string {
	return filepath.Clean(dir) + ".lock"
}

// Acquire takes the lock for dir without blocking.
func Acquire(dir string) (*Lock, error) {
	path := PathFor(dir)
	if parent := filepath.Dir(path); parent != "." {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
	}

	flk := flock.New(path)
	locked, err := flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return &Lock{flk: flk}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.flk.Path()
}

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.flk == nil {
		return nil
	}
	return l.flk.Unlock()
}
