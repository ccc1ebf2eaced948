// Package futex provides an address-keyed wait/wake primitive over a 32-bit
// atomic word, the building block for locks and latches layered above the
// page store.
//
// Wait may return spuriously, without any Wake having happened. Callers must
// always re-check their condition in a loop:
//
//	for state.Load() == locked {
//		futex.Wait(&state, locked)
//	}
package futex

import "sync/atomic"

// Wait blocks while addr holds expected. It returns when the value changes,
// when a wake targets addr, or spuriously.
func Wait(addr *atomic.Uint32, expected uint32) {
	wait(addr, expected)
}

// WakeOne wakes at most one goroutine parked on addr. It is fine to call
// with nobody waiting.
func WakeOne(addr *atomic.Uint32) {
	wake(addr, 1)
}

// WakeAll wakes every goroutine parked on addr.
func WakeAll(addr *atomic.Uint32) {
	wake(addr, wakeAllCount)
}
