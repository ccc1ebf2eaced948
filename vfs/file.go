package vfs

import (
	"context"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// EnsureParentDir creates the directory holding path. It is best-effort:
// failures are ignored and surface later when the file itself is opened.
func EnsureParentDir(ctx context.Context, path string) {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	fs := afs.New()
	location := url.ToFileURL(dir)
	if ok, _ := fs.Exists(ctx, location); ok {
		return
	}
	_ = fs.Create(ctx, location, os.ModeDir|0o755, true)
}

// FileLength returns the size of f, used to seed the OffsetAllocator.
func FileLength(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// AlignedBuffer returns a zeroed slice of size bytes whose first byte is
// PageSize aligned, as required by direct I/O.
func AlignedBuffer(size int) []byte {
	if size <= 0 {
		return []byte{}
	}
	raw := make([]byte, size+PageSize)
	shift := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) & (PageSize - 1)); rem != 0 {
		shift = PageSize - rem
	}
	return raw[shift : shift+size : shift+size]
}

// IsAligned reports whether buf starts on a PageSize boundary.
func IsAligned(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&buf[0]))&(PageSize-1) == 0
}
