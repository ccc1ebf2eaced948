package stress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/viant/pagevfs/vfs"
	"github.com/viant/pagevfs/vfs/stdvfs"
)

func TestRun_StdVFS(t *testing.T) {
	s, err := stdvfs.Open(context.Background(), stdvfs.Options{Path: filepath.Join(t.TempDir(), "stress.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	report, err := Run(context.Background(), s, Options{Workers: 4, Cycles: 200, Seed: 7, Logf: t.Logf})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Cycles != 800 || report.Sessions {
		t.Fatalf("unexpected report: %+v", report)
	}
	if next, _ := s.AllocOffset(0); next != vfs.PageSize+800*vfs.PageSize {
		t.Fatalf("allocator advanced to %d", next)
	}
}

// flipper corrupts every read to prove the digest check fires.
type flipper struct {
	vfs.Backend
}

func (f flipper) Read(offset int64, buf []byte) error {
	if err := f.Backend.Read(offset, buf); err != nil {
		return err
	}
	buf[len(buf)/2] ^= 0xFF
	return nil
}

func TestRun_DetectsCorruption(t *testing.T) {
	s, err := stdvfs.Open(context.Background(), stdvfs.Options{Path: filepath.Join(t.TempDir(), "flip.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	_, err = Run(context.Background(), flipper{s}, Options{Workers: 2, Cycles: 3, Seed: 1})
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	s, err := stdvfs.Open(context.Background(), stdvfs.Options{Path: filepath.Join(t.TempDir(), "cancel.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, s, Options{Workers: 2, Cycles: 10}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
