package uringvfs

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Mode selects how completions are observed.
type Mode int

const (
	// ModePolling enables kernel submission polling and I/O polling, chaining
	// every ring's async worker pool onto its predecessor. Completions are
	// busy-polled.
	ModePolling Mode = iota
	// ModeBlocking uses interrupt driven rings; the submitting goroutine
	// blocks in io_uring_enter until one completion is available.
	ModeBlocking
)

func (m Mode) String() string {
	switch m {
	case ModePolling:
		return "polling"
	case ModeBlocking:
		return "blocking"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a config value into a Mode. An empty value means polling.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "polling", "poll":
		return ModePolling, nil
	case "blocking", "block":
		return ModeBlocking, nil
	}
	return 0, fmt.Errorf("uringvfs: unknown mode %q", v)
}

const (
	// DefaultQueueDepth is the submission queue size of every ring. Each call
	// has exactly one operation in flight, so the queue never needs to be deep.
	DefaultQueueDepth = 8
	// DefaultSQThreadIdle is how long the kernel poller spins before parking.
	DefaultSQThreadIdle = 50 * time.Millisecond

	minRings = 32
)

// PoolSize returns the default number of rings: max(32, 4 x CPUs).
func PoolSize() int {
	n := 4 * runtime.NumCPU()
	if n < minRings {
		n = minRings
	}
	return n
}

// Options configures the store.
type Options struct {
	// Path is the backing file; missing parent directories are created.
	Path string
	Mode Mode
	// Rings overrides the pool size; zero means PoolSize().
	Rings int
	// QueueDepth is the per-ring submission queue size.
	QueueDepth uint32
	// SQThreadIdle applies to ModePolling only.
	SQThreadIdle time.Duration
	// Lock takes an exclusive advisory lock on the file for the store's lifetime.
	Lock bool
	// Logf receives lifecycle messages; nil disables logging.
	Logf func(format string, args ...any)
}

func (o *Options) withDefaults() {
	if o.Rings <= 0 {
		o.Rings = PoolSize()
	}
	if o.QueueDepth == 0 {
		o.QueueDepth = DefaultQueueDepth
	}
	if o.SQThreadIdle <= 0 {
		o.SQThreadIdle = DefaultSQThreadIdle
	}
}
