// Package pagevfs opens a page storage backend from configuration.
//
// A database engine reads and writes fixed-size pages at byte offsets of a
// single file. Three interchangeable implementations of vfs.Backend are
// provided: an in-memory arena (memvfs), a buffered file (stdvfs) and a pool
// of io_uring rings over an O_DIRECT file (uringvfs).
//
//	cfg, err := pagevfs.LoadConfig("~/.pagevfs/config.yaml")
//	backend, err := pagevfs.Open(ctx, *cfg)
//	defer backend.Close()
package pagevfs
