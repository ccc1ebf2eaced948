package stdvfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/viant/pagevfs/vfs"
)

// Options configures the store.
type Options struct {
	// Path is the backing file; missing parent directories are created.
	Path string
	// Perm is used when the file is created.
	Perm os.FileMode
	// Lock takes an exclusive advisory lock on the file for the store's lifetime.
	Lock bool
	// Logf receives lifecycle messages; nil disables logging.
	Logf func(format string, args ...any)
}

func (o *Options) withDefaults() {
	if o.Perm == 0 {
		o.Perm = 0o644
	}
}

// Store implements vfs.Backend with positioned I/O on a page-cached file.
// ReadAt/WriteAt do not share a file cursor, so calls from different
// goroutines do not interfere at the descriptor level.
type Store struct {
	mu     sync.RWMutex
	path   string
	f      *os.File
	alloc  *vfs.OffsetAllocator
	stats  vfs.Counters
	closed bool
	locked bool
	logf   func(format string, args ...any)
}

// Open creates or opens the file at opts.Path.
func Open(ctx context.Context, opts Options) (*Store, error) {
	opts.withDefaults()
	if opts.Path == "" {
		return nil, fmt.Errorf("stdvfs: Path is required")
	}
	vfs.EnsureParentDir(ctx, opts.Path)
	f, err := os.OpenFile(opts.Path, os.O_RDWR|os.O_CREATE, opts.Perm)
	if err != nil {
		return nil, fmt.Errorf("stdvfs: open %s: %w", opts.Path, err)
	}
	if opts.Lock {
		if err := vfs.TryLock(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("stdvfs: lock %s: %w", opts.Path, err)
		}
	}
	size, err := vfs.FileLength(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stdvfs: stat %s: %w", opts.Path, err)
	}
	s := &Store{
		path:   opts.Path,
		f:      f,
		alloc:  vfs.NewOffsetAllocator(size),
		locked: opts.Lock,
		logf:   opts.Logf,
	}
	s.log("stdvfs: opened %s size=%d next=%d", opts.Path, size, s.alloc.Next())
	return s, nil
}

func (s *Store) log(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Read implements vfs.Backend.Read.
func (s *Store) Read(offset int64, buf []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if len(buf) == 0 {
		return nil
	}
	n, err := s.f.ReadAt(buf, offset)
	if n != len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			err = fmt.Errorf("%w: %d of %d bytes", vfs.ErrShortTransfer, n, len(buf))
		}
		return vfs.Fatal("read", offset, len(buf), err)
	}
	s.stats.AddRead(n)
	return nil
}

// Write implements vfs.Backend.Write.
func (s *Store) Write(offset int64, buf []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if len(buf) == 0 {
		return nil
	}
	n, err := s.f.WriteAt(buf, offset)
	if err != nil || n != len(buf) {
		if err == nil {
			err = fmt.Errorf("%w: %d of %d bytes", vfs.ErrShortTransfer, n, len(buf))
		}
		return vfs.Fatal("write", offset, len(buf), err)
	}
	s.stats.AddWrite(n)
	return nil
}

// AllocOffset implements vfs.Backend.AllocOffset.
func (s *Store) AllocOffset(size int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, vfs.ErrClosed
	}
	s.stats.AddAlloc(size)
	return s.alloc.Alloc(size), nil
}

// DeallocOffset implements vfs.Backend.DeallocOffset.
func (s *Store) DeallocOffset(offset int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	s.alloc.Dealloc(offset)
	return nil
}

// Flush syncs file data and metadata to disk.
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("stdvfs: sync %s: %w", s.path, err)
	}
	s.stats.AddFlush()
	return nil
}

// Close releases the file lock, if held, and closes the backing file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var unlockErr error
	if s.locked {
		unlockErr = vfs.Unlock(s.f)
	}
	s.log("stdvfs: closed %s", s.path)
	return errors.Join(unlockErr, s.f.Close())
}

// Stats returns best-effort metrics.
func (s *Store) Stats() vfs.Stats {
	return s.stats.Snapshot()
}

var _ vfs.Backend = (*Store)(nil)
