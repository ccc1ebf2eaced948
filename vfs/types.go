package vfs

const (
	// PageSize is the unit of allocation; the first page of every file is reserved.
	PageSize = 4096
	// MaxPageSize bounds the size of leaf pages handed to AllocOffset. It is not enforced here.
	MaxPageSize = 32768
)

// Stats exposes basic runtime I/O counters.
type Stats struct {
	// Number of completed Read calls (zero-length calls excluded)
	Reads uint64 `json:"reads" yaml:"reads"`
	// Number of completed Write calls (zero-length calls excluded)
	Writes uint64 `json:"writes" yaml:"writes"`
	// Total bytes transferred by Read/Write
	BytesRead    uint64 `json:"bytesRead" yaml:"bytesRead"`
	BytesWritten uint64 `json:"bytesWritten" yaml:"bytesWritten"`
	// Number of Flush calls
	Flushes uint64 `json:"flushes" yaml:"flushes"`
	// Number of AllocOffset calls and the bytes they reserved
	Allocs     uint64 `json:"allocs" yaml:"allocs"`
	AllocBytes uint64 `json:"allocBytes" yaml:"allocBytes"`
}

// Backend is the page I/O contract shared by all storage strategies.
// Implementations must be safe for concurrent use by multiple goroutines.
// No offset-level locking is performed: concurrent access to the same
// offset is a caller-level race.
type Backend interface {
	// Read fills buf from offset. It either transfers exactly len(buf) bytes
	// or returns an error; a short read is reported as a *FatalError.
	Read(offset int64, buf []byte) error

	// Write stores buf at offset with the same exactness as Read.
	Write(offset int64, buf []byte) error

	// AllocOffset reserves size bytes and returns their starting offset.
	// size is expected to be a multiple of PageSize; it is not re-validated.
	AllocOffset(size int64) (int64, error)

	// DeallocOffset tells the backend an offset is no longer needed.
	// Space is not reclaimed; reuse is the responsibility of the layer above.
	DeallocOffset(offset int64) error

	// Flush makes all previously completed writes durable.
	Flush() error

	// Close releases file handles and rings. After Close, the
	// backend must be unusable and should return ErrClosed.
	Close() error

	// Stats returns best-effort counters; it should be cheap to call.
	Stats() Stats
}

// Sessioner is implemented by backends that can bind one I/O-issuing
// goroutine to a fixed internal resource for its lifetime.
type Sessioner interface {
	Session() Backend
}
