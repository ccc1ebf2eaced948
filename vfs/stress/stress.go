// Package stress drives a vfs.Backend with concurrent write-then-read-verify
// cycles and reports any page that does not come back intact.
package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/minio/highwayhash"
	"golang.org/x/sync/errgroup"

	"github.com/viant/pagevfs/vfs"
)

// ErrCorrupt is returned when a page read back differs from what was written.
var ErrCorrupt = errors.New("stress: page corrupted")

var key = []byte("pagevfs-stress-digest-key-32byte")

// Options configures a run.
type Options struct {
	// Workers is the number of concurrent goroutines.
	Workers int
	// Cycles is the number of write-read-verify rounds per worker.
	Cycles int
	// PageSize is the size of every allocated page; it must suit the backend
	// (multiple of the device block size for direct I/O).
	PageSize int
	// Seed makes page content reproducible.
	Seed int64
	// Logf receives a summary line; nil disables logging.
	Logf func(format string, args ...any)
}

func (o *Options) withDefaults() {
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.Cycles <= 0 {
		o.Cycles = 1000
	}
	if o.PageSize <= 0 {
		o.PageSize = vfs.PageSize
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// Report summarises a successful run.
type Report struct {
	Workers  int
	Cycles   int
	Bytes    int64
	Elapsed  time.Duration
	Sessions bool
}

// Run starts opts.Workers goroutines. Each allocates a fresh page per cycle,
// writes seeded random content, reads it back and compares digests. When the
// backend implements vfs.Sessioner every worker gets its own session.
func Run(ctx context.Context, backend vfs.Backend, opts Options) (*Report, error) {
	opts.withDefaults()
	sessioner, withSessions := backend.(vfs.Sessioner)
	started := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		session := backend
		if withSessions {
			session = sessioner.Session()
		}
		rng := rand.New(rand.NewSource(opts.Seed + int64(w)))
		g.Go(func() error {
			return cycle(ctx, session, rng, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report := &Report{
		Workers:  opts.Workers,
		Cycles:   opts.Workers * opts.Cycles,
		Bytes:    2 * int64(opts.Workers) * int64(opts.Cycles) * int64(opts.PageSize),
		Elapsed:  time.Since(started),
		Sessions: withSessions,
	}
	if opts.Logf != nil {
		opts.Logf("stress: workers=%d cycles=%d bytes=%d elapsed=%s", report.Workers, report.Cycles, report.Bytes, report.Elapsed)
	}
	return report, nil
}

func cycle(ctx context.Context, session vfs.Backend, rng *rand.Rand, opts Options) error {
	page := vfs.AlignedBuffer(opts.PageSize)
	back := vfs.AlignedBuffer(opts.PageSize)
	for i := 0; i < opts.Cycles; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		offset, err := session.AllocOffset(int64(opts.PageSize))
		if err != nil {
			return fmt.Errorf("stress: alloc: %w", err)
		}
		rng.Read(page)
		want := highwayhash.Sum64(page, key)
		if err := session.Write(offset, page); err != nil {
			return err
		}
		clear(back)
		if err := session.Read(offset, back); err != nil {
			return err
		}
		if got := highwayhash.Sum64(back, key); got != want {
			return fmt.Errorf("%w at offset %d: digest %x, want %x", ErrCorrupt, offset, got, want)
		}
	}
	return nil
}
