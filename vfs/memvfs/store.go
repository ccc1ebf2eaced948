package memvfs

import (
	"sync"

	"github.com/viant/pagevfs/vfs"
)

// Store is an in-memory implementation of vfs.Backend.
// Offsets index into a fixed arena owned by the caller. It is intended for
// tests and simulations only: nothing is durable and allocation is not
// implemented, callers manage regions of the arena themselves.
type Store struct {
	mu     sync.RWMutex
	arena  []byte
	stats  vfs.Counters
	closed bool
}

// New wraps a caller-owned arena.
func New(arena []byte) *Store {
	return &Store{arena: arena}
}

// Open allocates a zeroed arena of size bytes.
func Open(size int) *Store {
	return New(make([]byte, size))
}

// Arena exposes the underlying region.
func (s *Store) Arena() []byte { return s.arena }

func (s *Store) window(offset int64, n int) ([]byte, error) {
	if offset < 0 || offset > int64(len(s.arena)) || int64(n) > int64(len(s.arena))-offset {
		return nil, vfs.ErrOutOfBounds
	}
	return s.arena[offset : offset+int64(n)], nil
}

// Read copies len(buf) bytes starting at offset into buf.
func (s *Store) Read(offset int64, buf []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if len(buf) == 0 {
		return nil
	}
	src, err := s.window(offset, len(buf))
	if err != nil {
		return err
	}
	copy(buf, src)
	s.stats.AddRead(len(buf))
	return nil
}

// Write copies buf into the arena at offset.
func (s *Store) Write(offset int64, buf []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	if len(buf) == 0 {
		return nil
	}
	dst, err := s.window(offset, len(buf))
	if err != nil {
		return err
	}
	copy(dst, buf)
	s.stats.AddWrite(len(buf))
	return nil
}

// AllocOffset is not implemented for the arena.
func (s *Store) AllocOffset(size int64) (int64, error) {
	return 0, vfs.ErrUnsupported
}

// DeallocOffset is not implemented for the arena.
func (s *Store) DeallocOffset(offset int64) error {
	return vfs.ErrUnsupported
}

// Flush is a no-op for in-memory store.
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return vfs.ErrClosed
	}
	s.stats.AddFlush()
	return nil
}

// Close marks the store as closed. Further ops return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.arena = nil
	return nil
}

// Stats returns current stats snapshot.
func (s *Store) Stats() vfs.Stats {
	return s.stats.Snapshot()
}

var _ vfs.Backend = (*Store)(nil)
