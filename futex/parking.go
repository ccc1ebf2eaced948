package futex

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

const buckets = 64

// parkingLot is a portable stand-in for the kernel futex table: waiters are
// queued per address under a bucket lock, and the value check happens under
// the same lock, so a wake issued after the value changed cannot be missed.
type parkingLot struct {
	buckets [buckets]bucket
}

type bucket struct {
	mu      sync.Mutex
	waiters map[uintptr][]chan struct{}
}

var lot parkingLot

func (l *parkingLot) bucket(key uintptr) *bucket {
	return &l.buckets[(key>>2)%buckets]
}

func (l *parkingLot) wait(addr *atomic.Uint32, expected uint32) {
	key := uintptr(unsafe.Pointer(addr))
	b := l.bucket(key)
	b.mu.Lock()
	if addr.Load() != expected {
		b.mu.Unlock()
		return
	}
	if b.waiters == nil {
		b.waiters = map[uintptr][]chan struct{}{}
	}
	ch := make(chan struct{})
	b.waiters[key] = append(b.waiters[key], ch)
	b.mu.Unlock()
	<-ch
}

func (l *parkingLot) wake(addr *atomic.Uint32, n int) {
	key := uintptr(unsafe.Pointer(addr))
	b := l.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()
	queue := b.waiters[key]
	if n > len(queue) {
		n = len(queue)
	}
	for _, ch := range queue[:n] {
		close(ch)
	}
	if rest := queue[n:]; len(rest) > 0 {
		b.waiters[key] = rest
	} else {
		delete(b.waiters, key)
	}
}
