package memvfs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/viant/pagevfs/vfs"
)

func TestStore_RoundTrip(t *testing.T) {
	s := Open(2 * vfs.MaxPageSize)
	defer s.Close()

	for _, n := range []int{1, vfs.PageSize, vfs.MaxPageSize} {
		data := bytes.Repeat([]byte{byte(n % 251)}, n)
		data[0] = 0xA5
		off := int64(vfs.PageSize)
		if err := s.Write(off, data); err != nil {
			t.Fatalf("write %d: %v", n, err)
		}
		got := make([]byte, n)
		if err := s.Read(off, got); err != nil {
			t.Fatalf("read %d: %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("len %d: round trip mismatch", n)
		}
	}
}

func TestStore_CallerOwnedArena(t *testing.T) {
	arena := make([]byte, vfs.PageSize)
	s := New(arena)
	if err := s.Write(10, []byte("page")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if string(arena[10:14]) != "page" {
		t.Fatalf("arena not updated in place: %q", arena[10:14])
	}
}

func TestStore_OutOfBounds(t *testing.T) {
	s := Open(vfs.PageSize)
	cases := []struct {
		name   string
		offset int64
		n      int
	}{
		{"negative", -1, 1},
		{"past end", vfs.PageSize, 1},
		{"straddles end", vfs.PageSize - 2, 4},
		{"huge offset", 1 << 62, 1},
	}
	for _, tc := range cases {
		buf := make([]byte, tc.n)
		if err := s.Read(tc.offset, buf); !errors.Is(err, vfs.ErrOutOfBounds) {
			t.Fatalf("%s read: expected ErrOutOfBounds, got %v", tc.name, err)
		}
		if err := s.Write(tc.offset, buf); !errors.Is(err, vfs.ErrOutOfBounds) {
			t.Fatalf("%s write: expected ErrOutOfBounds, got %v", tc.name, err)
		}
	}
}

func TestStore_ZeroLength(t *testing.T) {
	s := Open(0)
	if err := s.Write(123, nil); err != nil {
		t.Fatalf("zero write: %v", err)
	}
	if err := s.Read(123, []byte{}); err != nil {
		t.Fatalf("zero read: %v", err)
	}
	if st := s.Stats(); st.Reads != 0 || st.Writes != 0 {
		t.Fatalf("zero-length calls counted: %+v", st)
	}
}

func TestStore_AllocUnsupported(t *testing.T) {
	s := Open(vfs.PageSize)
	if _, err := s.AllocOffset(vfs.PageSize); !errors.Is(err, vfs.ErrUnsupported) {
		t.Fatalf("alloc: expected ErrUnsupported, got %v", err)
	}
	if err := s.DeallocOffset(0); !errors.Is(err, vfs.ErrUnsupported) {
		t.Fatalf("dealloc: expected ErrUnsupported, got %v", err)
	}
}

func TestStore_Closed(t *testing.T) {
	s := Open(vfs.PageSize)
	_ = s.Close()
	if err := s.Read(0, make([]byte, 1)); !errors.Is(err, vfs.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := s.Flush(); !errors.Is(err, vfs.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
