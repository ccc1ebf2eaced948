//go:build linux

package futex

import (
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWait    = 0
	futexWake    = 1
	futexPrivate = 128

	wakeAllCount = math.MaxInt32
)

// The kernel only uses addr as a key when waking; it never dereferences it.
// EAGAIN (value already changed) and EINTR are ordinary spurious returns.
func wait(addr *atomic.Uint32, expected uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWait|futexPrivate, uintptr(expected), 0, 0, 0)
}

func wake(addr *atomic.Uint32, n int) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWake|futexPrivate, uintptr(n), 0, 0, 0)
}
