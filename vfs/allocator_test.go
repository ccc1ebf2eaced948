package vfs

import (
	"sort"
	"sync"
	"testing"
)

func TestOffsetAllocator_Seed(t *testing.T) {
	cases := []struct {
		fileLen int64
		want    int64
	}{
		{0, PageSize},
		{100, PageSize},
		{PageSize, PageSize},
		{10 * PageSize, 10 * PageSize},
	}
	for _, tc := range cases {
		a := NewOffsetAllocator(tc.fileLen)
		if got := a.Alloc(PageSize); got != tc.want {
			t.Fatalf("fileLen=%d: first offset %d, want %d", tc.fileLen, got, tc.want)
		}
	}
}

func TestOffsetAllocator_Sequential(t *testing.T) {
	a := NewOffsetAllocator(0)
	if got := a.Alloc(4096); got != 4096 {
		t.Fatalf("first=%d", got)
	}
	if got := a.Alloc(8192); got != 8192 {
		t.Fatalf("second=%d", got)
	}
	if got := a.Alloc(4096); got != 16384 {
		t.Fatalf("third=%d", got)
	}
	a.Dealloc(8192)
	if got := a.Next(); got != 20480 {
		t.Fatalf("dealloc must not reuse space, next=%d", got)
	}
}

func TestOffsetAllocator_ConcurrentDisjoint(t *testing.T) {
	const workers, per = 16, 200
	a := NewOffsetAllocator(0)
	offsets := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				offsets[w] = append(offsets[w], a.Alloc(PageSize))
			}
		}(w)
	}
	wg.Wait()
	var all []int64
	for _, o := range offsets {
		all = append(all, o...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	for i, off := range all {
		if want := int64(PageSize) + int64(i)*PageSize; off != want {
			t.Fatalf("offset[%d]=%d, want %d", i, off, want)
		}
	}
	if got, want := a.Next(), int64(PageSize)*(1+workers*per); got != want {
		t.Fatalf("next=%d, want %d", got, want)
	}
}
