//go:build !linux

package uringvfs

import (
	"context"

	"github.com/viant/pagevfs/vfs"
)

// io_uring exists on Linux only; elsewhere Open always fails so callers can
// fall back to stdvfs.

// Store is a placeholder that is never successfully constructed.
type Store struct{}

func Open(ctx context.Context, opts Options) (*Store, error) {
	return nil, vfs.ErrUnsupported
}

func OpenBlocking(ctx context.Context, opts Options) (*Store, error) {
	return nil, vfs.ErrUnsupported
}

func (s *Store) Read(offset int64, buf []byte) error   { return vfs.ErrUnsupported }
func (s *Store) Write(offset int64, buf []byte) error  { return vfs.ErrUnsupported }
func (s *Store) AllocOffset(size int64) (int64, error) { return 0, vfs.ErrUnsupported }
func (s *Store) DeallocOffset(offset int64) error      { return vfs.ErrUnsupported }
func (s *Store) Flush() error                          { return vfs.ErrUnsupported }
func (s *Store) Close() error                          { return nil }
func (s *Store) Stats() vfs.Stats                      { return vfs.Stats{} }
func (s *Store) Rings() int                            { return 0 }
func (s *Store) Mode() Mode                            { return ModeBlocking }

var _ vfs.Backend = (*Store)(nil)
