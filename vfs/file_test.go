package vfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAlignedBuffer(t *testing.T) {
	for _, size := range []int{1, 512, PageSize, 3 * PageSize, MaxPageSize} {
		buf := AlignedBuffer(size)
		if len(buf) != size || cap(buf) != size {
			t.Fatalf("size %d: len=%d cap=%d", size, len(buf), cap(buf))
		}
		if !IsAligned(buf) {
			t.Fatalf("size %d: buffer not aligned", size)
		}
	}
	if buf := AlignedBuffer(0); len(buf) != 0 || !IsAligned(buf) {
		t.Fatalf("empty buffer: len=%d", len(buf))
	}
}

func TestEnsureParentDir(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "a", "b", "pages.db")
	EnsureParentDir(context.Background(), path)
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory")
	}
	// existing directory is left alone
	EnsureParentDir(context.Background(), path)
}

func TestFileLength(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "f"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(make([]byte, 1234)); err != nil {
		t.Fatalf("write: %v", err)
	}
	n, err := FileLength(f)
	if err != nil || n != 1234 {
		t.Fatalf("length=%d err=%v", n, err)
	}
}
