package vfs

import "sync/atomic"

// Counters accumulates Stats with atomic increments so backends can update
// them from any goroutine without locking.
type Counters struct {
	reads        atomic.Uint64
	writes       atomic.Uint64
	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	flushes      atomic.Uint64
	allocs       atomic.Uint64
	allocBytes   atomic.Uint64
}

func (c *Counters) AddRead(n int) {
	c.reads.Add(1)
	c.bytesRead.Add(uint64(n))
}

func (c *Counters) AddWrite(n int) {
	c.writes.Add(1)
	c.bytesWritten.Add(uint64(n))
}

func (c *Counters) AddFlush() { c.flushes.Add(1) }

func (c *Counters) AddAlloc(size int64) {
	c.allocs.Add(1)
	c.allocBytes.Add(uint64(size))
}

// Snapshot returns the current values.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Reads:        c.reads.Load(),
		Writes:       c.writes.Load(),
		BytesRead:    c.bytesRead.Load(),
		BytesWritten: c.bytesWritten.Load(),
		Flushes:      c.flushes.Load(),
		Allocs:       c.allocs.Load(),
		AllocBytes:   c.allocBytes.Load(),
	}
}
