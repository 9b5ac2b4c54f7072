package store

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by LockPath when another process holds the lock.
var ErrLocked = errors.New("snapshot database is locked by another process")

// LockPath takes an exclusive advisory lock on dbPath+".lock" so that a
// single watcher owns a snapshot database. The returned func releases it.
func LockPath(dbPath string) (func() error, error) {
	fl := flock.New(dbPath + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", fl.Path(), ErrLocked)
	}
	return fl.Unlock, nil
}
