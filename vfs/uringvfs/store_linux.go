//go:build linux

package uringvfs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/viant/pagevfs/vfs"
)

// Store implements vfs.Backend on top of a pool of io_uring instances over an
// O_DIRECT file. Every call is synchronous: one request is submitted and the
// caller waits for its completion before returning.
//
// Direct I/O requires offsets, lengths and buffer addresses aligned to the
// device block size; the store passes them through unchanged.
type Store struct {
	mu     sync.RWMutex
	closed bool
	locked bool

	path      string
	f         *os.File
	fd        int
	mode      Mode
	waitCount uint32
	rings     []*ring
	poolSize  int
	nextSlot  atomic.Uint64
	alloc     *vfs.OffsetAllocator
	stats     vfs.Counters
	logf      func(format string, args ...any)
}

// Open creates or opens the store in the mode given by opts (polling by default).
func Open(ctx context.Context, opts Options) (*Store, error) {
	opts.withDefaults()
	if opts.Path == "" {
		return nil, fmt.Errorf("uringvfs: Path is required")
	}
	vfs.EnsureParentDir(ctx, opts.Path)
	fd, err := unix.Open(opts.Path, unix.O_DIRECT|unix.O_RDWR|unix.O_CREAT|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("uringvfs: open %s: %w", opts.Path, err)
	}
	f := os.NewFile(uintptr(fd), opts.Path)
	if opts.Lock {
		if err := vfs.TryLock(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("uringvfs: lock %s: %w", opts.Path, err)
		}
	}
	size, err := vfs.FileLength(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("uringvfs: stat %s: %w", opts.Path, err)
	}
	s := &Store{
		path:   opts.Path,
		f:      f,
		fd:     fd,
		mode:   opts.Mode,
		locked: opts.Lock,
		alloc:  vfs.NewOffsetAllocator(size),
		logf:   opts.Logf,
	}
	if opts.Mode == ModeBlocking {
		s.waitCount = 1
	}
	if err := s.buildRings(opts); err != nil {
		s.closeRings()
		_ = f.Close()
		return nil, err
	}
	s.log("uringvfs: opened %s size=%d rings=%d mode=%s depth=%d", opts.Path, size, len(s.rings), s.mode, opts.QueueDepth)
	return s, nil
}

// OpenBlocking opens the store with interrupt driven rings.
func OpenBlocking(ctx context.Context, opts Options) (*Store, error) {
	opts.Mode = ModeBlocking
	return Open(ctx, opts)
}

func (s *Store) buildRings(opts Options) error {
	s.rings = make([]*ring, 0, opts.Rings)
	for i := 0; i < opts.Rings; i++ {
		cfg := ringConfig{
			entries:  opts.QueueDepth,
			polling:  opts.Mode == ModePolling,
			idle:     opts.SQThreadIdle,
			attachFd: -1,
		}
		if cfg.polling && i > 0 {
			cfg.attachFd = s.rings[i-1].fd
		}
		r, err := newRing(cfg)
		if err != nil {
			return fmt.Errorf("uringvfs: ring %d of %d: %w", i, opts.Rings, err)
		}
		s.rings = append(s.rings, r)
	}
	s.poolSize = len(s.rings)
	return nil
}

func (s *Store) log(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Mode returns the completion mode the rings were built with.
func (s *Store) Mode() Mode { return s.mode }

// Rings returns the pool size.
func (s *Store) Rings() int { return s.poolSize }

// Worker binds the caller to a ring chosen round-robin at creation time.
// A worker is meant to be owned by one I/O-issuing goroutine; workers that
// land on the same ring serialize on that ring's lock.
func (s *Store) Worker() *Worker {
	return &Worker{Store: s, slot: s.pickSlot()}
}

// Session implements vfs.Sessioner.
func (s *Store) Session() vfs.Backend { return s.Worker() }

func (s *Store) pickSlot() int {
	return int((s.nextSlot.Add(1) - 1) % uint64(s.poolSize))
}

// Read implements vfs.Backend.Read using the next ring in round-robin order.
func (s *Store) Read(offset int64, buf []byte) error {
	return s.readAt(s.pickSlot(), offset, buf)
}

// Write implements vfs.Backend.Write using the next ring in round-robin order.
func (s *Store) Write(offset int64, buf []byte) error {
	return s.writeAt(s.pickSlot(), offset, buf)
}

func (s *Store) readAt(slot int, offset int64, buf []byte) error {
	if err := s.transfer(slot, opRead, "read", offset, buf); err != nil {
		return err
	}
	if len(buf) > 0 {
		s.stats.AddRead(len(buf))
	}
	return nil
}

func (s *Store) writeAt(slot int, offset int64, buf []byte) error {
	if err := s.transfer(slot, opWrite, "write", offset, buf); err != nil {
		return err
	}
	if len(buf) > 0 {
		s.stats.AddWrite(len(buf))
	}
	return nil
}

func (s *Store) transfer(slot int, op uint8, name string, offset int64, buf []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if len(buf) == 0 {
		return nil
	}
	if offset < 0 || int64(len(buf)) > math.MaxUint32 {
		return vfs.Fatal(name, offset, len(buf), vfs.ErrOutOfBounds)
	}
	res, err := s.rings[slot].do(op, s.fd, buf, offset, s.waitCount)
	if err != nil {
		return vfs.Fatal(name, offset, len(buf), err)
	}
	if res < 0 {
		return vfs.Fatal(name, offset, len(buf), unix.Errno(-res))
	}
	if int(res) != len(buf) {
		return vfs.Fatal(name, offset, len(buf), fmt.Errorf("%w: %d of %d bytes", vfs.ErrShortTransfer, res, len(buf)))
	}
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

// Flush fsyncs the file descriptor directly, outside the rings.
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if err := unix.Fsync(s.fd); err != nil {
		return fmt.Errorf("uringvfs: fsync %s: %w", s.path, err)
	}
	s.stats.AddFlush()
	return nil
}

// Close tears down the rings and closes the file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	ringErr := s.closeRings()
	var unlockErr error
	if s.locked {
		unlockErr = vfs.Unlock(s.f)
	}
	fileErr := s.f.Close()
	s.log("uringvfs: closed %s", s.path)
	return errors.Join(ringErr, unlockErr, fileErr)
}

func (s *Store) closeRings() error {
	var errs []error
	for i := len(s.rings) - 1; i >= 0; i-- {
		if err := s.rings[i].close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.rings = nil
	return errors.Join(errs...)
}

// Stats returns best-effort metrics.
func (s *Store) Stats() vfs.Stats {
	return s.stats.Snapshot()
}

// Worker is a view of a Store pinned to one ring.
type Worker struct {
	*Store
	slot int
}

// Slot returns the ring index the worker was assigned.
func (w *Worker) Slot() int { return w.slot }

// Read implements vfs.Backend.Read on the worker's ring.
func (w *Worker) Read(offset int64, buf []byte) error {
	return w.Store.readAt(w.slot, offset, buf)
}

// Write implements vfs.Backend.Write on the worker's ring.
func (w *Worker) Write(offset int64, buf []byte) error {
	return w.Store.writeAt(w.slot, offset, buf)
}

// Close detaches the worker. The store stays open.
func (w *Worker) Close() error { return nil }

var (
	_ vfs.Backend   = (*Store)(nil)
	_ vfs.Backend   = (*Worker)(nil)
	_ vfs.Sessioner = (*Store)(nil)
)
