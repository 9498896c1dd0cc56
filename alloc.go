package revtext

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

const (
	minClassShift = 6  // 64 B
	maxClassShift = 20 // 1 MiB; larger buffers bypass the pools
)

// allocator owns every buffer a Codec hands out. Small and medium sizes are
// recycled through per-class pools; counters track what callers still hold.
type allocator struct {
	max     int // 0 => unlimited
	classes [maxClassShift - minClassShift + 1]sync.Pool

	live      atomic.Int64
	liveBytes atomic.Int64
	allocs    atomic.Uint64
	releases  atomic.Uint64
}

// Stats is a point-in-time view of a Codec's allocations.
type Stats struct {
	Live      int64  // buffers handed out and not yet released
	LiveBytes int64  // sum of their lengths
	Allocs    uint64 // buffers ever handed out
	Releases  uint64 // buffers ever released
}

func classOf(n int) int {
	if n <= 1<<minClassShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxClassShift {
		return -1
	}
	return shift - minClassShift
}

// get returns a slice of exactly n bytes. Contents are
// unspecified; callers overwrite every byte.
func (a *allocator) get(n int) ([]byte, bool) {
	if n < 0 || (a.max > 0 && n > a.max) {
		return nil, false
	}
	c := classOf(n)
	if c < 0 {
		return make([]byte, n), true
	}
	if p, ok := a.classes[c].Get().(*[]byte); ok {
		return (*p)[:n], true
	}
	return make([]byte, n, 1<<(c+minClassShift)), true
}

func (a *allocator) put(b []byte) {
	c := classOf(cap(b))
	if c < 0 || cap(b) != 1<<(c+minClassShift) {
		return // odd-sized or oversized; let the GC have it
	}
	b = b[:0]
	a.classes[c].Put(&b)
}

// alloc is get plus ownership accounting.
func (a *allocator) alloc(n int) ([]byte, bool) {
	b, ok := a.get(n)
	if !ok {
		return nil, false
	}
	a.live.Add(1)
	a.liveBytes.Add(int64(n))
	a.allocs.Add(1)
	return b, true
}

func (a *allocator) free(b []byte) {
	a.live.Add(-1)
	a.liveBytes.Add(-int64(len(b)))
	a.releases.Add(1)
	a.put(b)
}

func (a *allocator) stats() Stats {
	return Stats{
		Live:      a.live.Load(),
		LiveBytes: a.liveBytes.Load(),
		Allocs:    a.allocs.Load(),
		Releases:  a.releases.Load(),
	}
}
