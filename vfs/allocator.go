package vfs

import "sync/atomic"

// OffsetAllocator hands out monotonically increasing, never reused file offsets.
type OffsetAllocator struct {
	next atomic.Int64
}

// NewOffsetAllocator seeds the allocator from the current file length.
// Files shorter than one page start at PageSize so that [0, PageSize) stays
// reserved for the header.
func NewOffsetAllocator(fileLen int64) *OffsetAllocator {
	if fileLen < PageSize {
		fileLen = PageSize
	}
	a := &OffsetAllocator{}
	a.next.Store(fileLen)
	return a
}

// Alloc reserves size bytes and returns the pre-increment offset.
func (a *OffsetAllocator) Alloc(size int64) int64 {
	return a.next.Add(size) - size
}

// Dealloc is a no-op; reclamation belongs to the layer above.
func (a *OffsetAllocator) Dealloc(offset int64) {}

// Next returns the offset the following Alloc would return.
func (a *OffsetAllocator) Next() int64 {
	return a.next.Load()
}
