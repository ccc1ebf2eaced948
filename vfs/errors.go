package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when the backend has been closed.
	ErrClosed = errors.New("vfs: backend closed")

	// ErrUnsupported is returned by operations or platforms the backend does not implement.
	ErrUnsupported = errors.New("vfs: operation not supported")

	// ErrOutOfBounds indicates an access outside the memory arena, or an
	// offset or length the kernel interface cannot represent.
	ErrOutOfBounds = errors.New("vfs: offset out of bounds")

	// ErrShortTransfer indicates the kernel moved fewer bytes than requested.
	ErrShortTransfer = errors.New("vfs: short transfer")

	// ErrQueueFull indicates the ring submission queue had no free entry.
	ErrQueueFull = errors.New("vfs: submission queue full")

	// ErrLocked is returned when another process holds the backing file.
	ErrLocked = errors.New("vfs: file locked by another process")

	// ErrCorrelation indicates a completion did not carry the expected tag.
	ErrCorrelation = errors.New("vfs: completion tag mismatch")

	// ErrRingBroken is returned by every call on a ring that failed mid-request
	// or was found holding a request it did not issue.
	ErrRingBroken = errors.New("vfs: ring out of service")
)

// FatalError reports an I/O outcome the page store must never hand back as
// a partial result. Callers are expected to stop rather than retry; see Strict.
type FatalError struct {
	Op     string
	Offset int64
	Length int
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("vfs: fatal %s at offset %d (len %d): %v", e.Op, e.Offset, e.Length, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal builds a *FatalError.
func Fatal(op string, offset int64, length int, err error) error {
	return &FatalError{Op: op, Offset: offset, Length: length, Err: err}
}

// IsFatal reports whether err carries a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
