//go:build linux

package uringvfs

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/viant/pagevfs/vfs"
)

const (
	setupIOPoll   = 1 << 0
	setupSQPoll   = 1 << 1
	setupAttachWQ = 1 << 5

	enterGetEvents = 1 << 0
	enterSQWakeup  = 1 << 1

	sqNeedWakeup = 1 << 0

	opRead  = 22 // IORING_OP_READ
	opWrite = 23 // IORING_OP_WRITE

	offSQRing = 0
	offCQRing = 0x8000000
	offSQEs   = 0x10000000

	// correlationTag is attached to every request and must come back on its completion.
	correlationTag = 0x42
)

// sqe mirrors struct io_uring_sqe (64 bytes).
type sqe struct {
	opcode      uint8
	flags       uint8
	ioprio      uint16
	fd          int32
	off         uint64
	addr        uint64
	len         uint32
	opcodeFlags uint32
	userData    uint64
	bufIndex    uint16
	personality uint16
	spliceFdIn  int32
	pad         [2]uint64
}

// cqe mirrors struct io_uring_cqe (16 bytes).
type cqe struct {
	userData uint64
	res      int32
	flags    uint32
}

type sqOffsets struct {
	head        uint32
	tail        uint32
	ringMask    uint32
	ringEntries uint32
	flags       uint32
	dropped     uint32
	array       uint32
	resv1       uint32
	userAddr    uint64
}

type cqOffsets struct {
	head        uint32
	tail        uint32
	ringMask    uint32
	ringEntries uint32
	overflow    uint32
	cqes        uint32
	flags       uint32
	resv1       uint32
	userAddr    uint64
}

// params mirrors struct io_uring_params.
type params struct {
	sqEntries    uint32
	cqEntries    uint32
	flags        uint32
	sqThreadCPU  uint32
	sqThreadIdle uint32
	features     uint32
	wqFd         uint32
	resv         [3]uint32
	sqOff        sqOffsets
	cqOff        cqOffsets
}

type ringConfig struct {
	entries uint32
	polling bool
	idle    time.Duration
	// attachFd is the ring whose async worker pool is shared; negative means none.
	attachFd int
}

// ring is a single io_uring instance. mu guards one submission-protocol run
// at a time: push, enter, reap.
type ring struct {
	mu      sync.Mutex
	fd      int
	polling bool
	// broken is set once a request could not be matched to its completion;
	// the ring is never used again after that.
	broken error

	sqRing  []byte
	cqRing  []byte
	sqesMem []byte

	sqHead    *uint32
	sqTail    *uint32
	sqFlags   *uint32
	sqMask    uint32
	sqEntries uint32
	sqArray   []uint32
	sqes      []sqe

	cqHead *uint32
	cqTail *uint32
	cqMask uint32
	cqes   []cqe
}

func newRing(cfg ringConfig) (*ring, error) {
	var p params
	if cfg.polling {
		p.flags |= setupSQPoll | setupIOPoll
		p.sqThreadIdle = uint32(cfg.idle / time.Millisecond)
		if cfg.attachFd >= 0 {
			p.flags |= setupAttachWQ
			p.wqFd = uint32(cfg.attachFd)
		}
	}
	fd, _, errno := unix.Syscall(unix.SYS_IO_URING_SETUP, uintptr(cfg.entries), uintptr(unsafe.Pointer(&p)), 0)
	if errno != 0 {
		return nil, fmt.Errorf("%w: io_uring_setup: %v", vfs.ErrUnsupported, errno)
	}
	r := &ring{fd: int(fd), polling: cfg.polling}
	if err := r.mapQueues(&p); err != nil {
		r.close()
		return nil, err
	}
	return r, nil
}

func (r *ring) mapQueues(p *params) error {
	var err error
	sqSize := int(p.sqOff.array + p.sqEntries*4)
	if r.sqRing, err = unix.Mmap(r.fd, offSQRing, sqSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE); err != nil {
		return fmt.Errorf("uringvfs: mmap sq ring: %w", err)
	}
	sqeSize := int(p.sqEntries) * int(unsafe.Sizeof(sqe{}))
	if r.sqesMem, err = unix.Mmap(r.fd, offSQEs, sqeSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE); err != nil {
		return fmt.Errorf("uringvfs: mmap sqes: %w", err)
	}
	cqSize := int(p.cqOff.cqes + p.cqEntries*uint32(unsafe.Sizeof(cqe{})))
	if r.cqRing, err = unix.Mmap(r.fd, offCQRing, cqSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE); err != nil {
		return fmt.Errorf("uringvfs: mmap cq ring: %w", err)
	}

	r.sqHead = r.sqWord(p.sqOff.head)
	r.sqTail = r.sqWord(p.sqOff.tail)
	r.sqFlags = r.sqWord(p.sqOff.flags)
	r.sqMask = *r.sqWord(p.sqOff.ringMask)
	r.sqEntries = *r.sqWord(p.sqOff.ringEntries)
	r.sqArray = unsafe.Slice((*uint32)(unsafe.Pointer(&r.sqRing[p.sqOff.array])), p.sqEntries)
	r.sqes = unsafe.Slice((*sqe)(unsafe.Pointer(&r.sqesMem[0])), p.sqEntries)

	r.cqHead = r.cqWord(p.cqOff.head)
	r.cqTail = r.cqWord(p.cqOff.tail)
	r.cqMask = *r.cqWord(p.cqOff.ringMask)
	r.cqes = unsafe.Slice((*cqe)(unsafe.Pointer(&r.cqRing[p.cqOff.cqes])), p.cqEntries)
	return nil
}

func (r *ring) sqWord(off uint32) *uint32 { return (*uint32)(unsafe.Pointer(&r.sqRing[off])) }
func (r *ring) cqWord(off uint32) *uint32 { return (*uint32)(unsafe.Pointer(&r.cqRing[off])) }

// push places one request on the submission queue and publishes the new tail.
func (r *ring) push(op uint8, fd int, buf []byte, offset int64) error {
	tail := atomic.LoadUint32(r.sqTail)
	head := atomic.LoadUint32(r.sqHead)
	if tail-head >= r.sqEntries {
		return vfs.ErrQueueFull
	}
	idx := tail & r.sqMask
	e := &r.sqes[idx]
	*e = sqe{}
	e.opcode = op
	e.fd = int32(fd)
	e.off = uint64(offset)
	e.addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	e.len = uint32(len(buf))
	e.userData = correlationTag
	r.sqArray[idx] = idx
	atomic.StoreUint32(r.sqTail, tail+1)
	return nil
}

func (r *ring) enter(toSubmit, minComplete uint32, flags uintptr) error {
	for {
		_, _, errno := unix.Syscall6(unix.SYS_IO_URING_ENTER, uintptr(r.fd), uintptr(toSubmit), uintptr(minComplete), flags, 0, 0)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		}
		return fmt.Errorf("io_uring_enter: %w", errno)
	}
}

// submit hands the pushed request to the kernel. In blocking mode it also
// waits for waitCount completions; in polling mode the kernel thread picks the
// entry up on its own and only needs a wakeup once it went idle.
func (r *ring) submit(waitCount uint32) error {
	if r.polling {
		if atomic.LoadUint32(r.sqFlags)&sqNeedWakeup == 0 && waitCount == 0 {
			return nil
		}
		var flags uintptr = enterSQWakeup
		if waitCount > 0 {
			flags |= enterGetEvents
		}
		return r.enter(0, waitCount, flags)
	}
	var flags uintptr
	if waitCount > 0 {
		flags = enterGetEvents
	}
	return r.enter(1, waitCount, flags)
}

// reap returns the next completion, spinning in polling mode and blocking in
// the kernel otherwise.
func (r *ring) reap() (cqe, error) {
	for {
		head := atomic.LoadUint32(r.cqHead)
		if head != atomic.LoadUint32(r.cqTail) {
			c := r.cqes[head&r.cqMask]
			atomic.StoreUint32(r.cqHead, head+1)
			return c, nil
		}
		if r.polling {
			runtime.Gosched()
			continue
		}
		if err := r.enter(0, 1, enterGetEvents); err != nil {
			return cqe{}, err
		}
	}
}

// do runs the whole submission protocol for one request and returns the
// kernel result. buf must not be empty.
func (r *ring) do(op uint8, fd int, buf []byte, offset int64, waitCount uint32) (int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.broken != nil {
		return 0, r.broken
	}
	if err := r.idle(); err != nil {
		return 0, r.fail(err)
	}

	var pinner runtime.Pinner
	pinner.Pin(&buf[0])
	defer pinner.Unpin()

	if err := r.push(op, fd, buf, offset); err != nil {
		return 0, r.fail(err)
	}
	if err := r.submit(waitCount); err != nil {
		return 0, r.fail(err)
	}
	c, err := r.reap()
	if err != nil {
		return 0, r.fail(err)
	}
	if c.userData != correlationTag {
		return c.res, r.fail(fmt.Errorf("%w: got %#x", vfs.ErrCorrelation, c.userData))
	}
	return c.res, nil
}

// idle checks that no earlier request is still queued or unreaped. A single
// request is in flight per run, so both queues are empty between runs.
func (r *ring) idle() error {
	if sqHead, sqTail := atomic.LoadUint32(r.sqHead), atomic.LoadUint32(r.sqTail); sqHead != sqTail {
		return fmt.Errorf("%d queued requests left on ring", sqTail-sqHead)
	}
	if cqHead, cqTail := atomic.LoadUint32(r.cqHead), atomic.LoadUint32(r.cqTail); cqHead != cqTail {
		return fmt.Errorf("%d unreaped completions left on ring", cqTail-cqHead)
	}
	return nil
}

// fail takes the ring out of service. A request whose completion was not
// consumed may still be running, so later callers must not see its result.
func (r *ring) fail(err error) error {
	r.broken = fmt.Errorf("%w: %v", vfs.ErrRingBroken, err)
	return r.broken
}

func (r *ring) close() error {
	for _, m := range [][]byte{r.cqRing, r.sqesMem, r.sqRing} {
		if m != nil {
			_ = unix.Munmap(m)
		}
	}
	r.cqRing, r.sqesMem, r.sqRing = nil, nil, nil
	if r.fd < 0 {
		return nil
	}
	err := unix.Close(r.fd)
	r.fd = -1
	return err
}
