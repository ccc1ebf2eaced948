// Package vfs defines the page I/O contract used by the storage engine and the
// pieces shared by every backend: the offset allocator, error values, counters
// and direct-I/O buffer helpers.
//
// Three backends implement Backend:
//
//   - memvfs: a bounds-checked memory arena for tests and simulations
//   - stdvfs: positioned reads and writes on a regular *os.File
//   - uringvfs: a pool of io_uring instances over an O_DIRECT file
//
// Backends never return a partial transfer. Any short read or write, full
// submission queue or kernel I/O error is reported as a *FatalError; Strict
// turns such errors into process termination at a single call site.
package vfs
