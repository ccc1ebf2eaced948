//go:build !windows

package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTryLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	a, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer a.Close()
	b, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if err := TryLock(a); err != nil {
		t.Fatalf("lock a: %v", err)
	}
	if err := TryLock(b); !errors.Is(err, ErrLocked) {
		t.Fatalf("lock b: expected ErrLocked, got %v", err)
	}
	if err := Unlock(a); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := TryLock(b); err != nil {
		t.Fatalf("lock b after unlock: %v", err)
	}
}
