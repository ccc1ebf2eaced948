//go:build !linux

package futex

import (
	"math"
	"sync/atomic"
)

const wakeAllCount = math.MaxInt32

func wait(addr *atomic.Uint32, expected uint32) {
	lot.wait(addr, expected)
}

func wake(addr *atomic.Uint32, n int) {
	lot.wake(addr, n)
}
