package stdvfs

import (
	"context"
	"math/rand"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/viant/pagevfs/vfs"
)

func openBench(b *testing.B) *Store {
	b.Helper()
	s, err := Open(context.Background(), Options{Path: filepath.Join(b.TempDir(), "bench.db")})
	if err != nil {
		b.Fatalf("open: %v", err)
	}
	b.Cleanup(func() { _ = s.Close() })
	return s
}

func BenchmarkWrite_Sizes(b *testing.B) {
	for _, sz := range []int{vfs.PageSize, 4 * vfs.PageSize, vfs.MaxPageSize} {
		b.Run("size_"+strconv.Itoa(sz), func(b *testing.B) {
			s := openBench(b)
			payload := make([]byte, sz)
			rand.Read(payload)
			b.SetBytes(int64(sz))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				off, _ := s.AllocOffset(int64(sz))
				if err := s.Write(off, payload); err != nil {
					b.Fatalf("write: %v", err)
				}
			}
		})
	}
}

func BenchmarkRead_Parallel(b *testing.B) {
	s := openBench(b)
	const pages = 1024
	payload := make([]byte, vfs.PageSize)
	rand.Read(payload)
	offsets := make([]int64, pages)
	for i := range offsets {
		offsets[i], _ = s.AllocOffset(vfs.PageSize)
		if err := s.Write(offsets[i], payload); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
	b.SetBytes(vfs.PageSize)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		buf := make([]byte, vfs.PageSize)
		r := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			if err := s.Read(offsets[r.Intn(pages)], buf); err != nil {
				b.Fatalf("read: %v", err)
			}
		}
	})
}
