package vfs

import "log"

// Strict adapts a Backend to an error-free API. Any error is passed to
// Fatalf, which by default terminates the process. It is meant to sit at the
// single top-level boundary of the engine: the backends themselves only ever
// return errors.
type Strict struct {
	Backend Backend
	// Fatalf is called once with a description of the failed call. It must
	// not return normally in production; tests may install a panicking hook.
	Fatalf func(format string, args ...any)
}

// NewStrict wraps backend with log.Fatalf as the terminating hook.
func NewStrict(backend Backend) *Strict {
	return &Strict{Backend: backend, Fatalf: log.Fatalf}
}

func (s *Strict) check(op string, err error) {
	if err == nil {
		return
	}
	fatalf := s.Fatalf
	if fatalf == nil {
		fatalf = log.Fatalf
	}
	fatalf("vfs: %s: %v", op, err)
}

func (s *Strict) Read(offset int64, buf []byte) {
	s.check("read", s.Backend.Read(offset, buf))
}

func (s *Strict) Write(offset int64, buf []byte) {
	s.check("write", s.Backend.Write(offset, buf))
}

func (s *Strict) AllocOffset(size int64) int64 {
	offset, err := s.Backend.AllocOffset(size)
	s.check("alloc offset", err)
	return offset
}

func (s *Strict) DeallocOffset(offset int64) {
	s.check("dealloc offset", s.Backend.DeallocOffset(offset))
}

func (s *Strict) Flush() {
	s.check("flush", s.Backend.Flush())
}
