package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLockPath_SecondLockFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vagas.db")

	unlock, err := LockPath(dbPath)
	if err != nil {
		t.Fatalf("first LockPath: %v", err)
	}

	if _, err := LockPath(dbPath); !errors.Is(err, ErrLocked) {
		t.Fatalf("second LockPath = %v, want ErrLocked", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	unlock2, err := LockPath(dbPath)
	if err != nil {
		t.Fatalf("LockPath after unlock: %v", err)
	}
	unlock2()
}
