// Package pool recycles the large buffers of the analysis hot path: padded
// picture planes, macroblock scratch and per-worker search state.
//
// Byte buffers are bucketed by size class so that frames of one
// resolution reuse each other's planes. Get never returns a stale length,
// but contents are not cleared.
package pool

import "sync"

// Size classes for plane buffers.
const (
	Size4K   = 4 << 10
	Size64K  = 64 << 10
	Size256K = 256 << 10
	Size1M   = 1 << 20
	Size4M   = 4 << 20
	Size16M  = 16 << 20
)

var sizes = [...]int{Size4K, Size64K, Size256K, Size1M, Size4M, Size16M}

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	for i, s := range sizes[:len(sizes)-1] {
		if size <= s {
			return i
		}
	}
	return len(sizes) - 1
}

var pools [len(sizes)]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i].New = func() any {
			b := make([]byte, sz)
			return &b
		}
	}
}

// Get returns a byte slice of length size. Sizes above the largest class
// are allocated exactly. The caller should Put the slice back when done.
func Get(size int) []byte {
	bp := pools[bucketIndex(size)].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		return make([]byte, size)
	}
	return b[:size]
}

// Put returns b to its size class. Slices smaller than Size4K are dropped.
func Put(b []byte) {
	c := cap(b)
	if c < Size4K {
		return
	}
	// A slice goes back to the largest class it can fully serve.
	idx := bucketIndex(c)
	if idx > 0 && c < sizes[idx] {
		idx--
	}
	b = b[:c]
	pools[idx].Put(&b)
}

// Typed is a pool of *T values. New builds a value when the pool is empty;
// Reset, when set, runs on every value handed out by Get.
type Typed[T any] struct {
	p     sync.Pool
	New   func() *T
	Reset func(*T)
}

// Get returns a value from the pool or a new one.
func (t *Typed[T]) Get() *T {
	v, _ := t.p.Get().(*T)
	if v == nil {
		if t.New != nil {
			v = t.New()
		} else {
			v = new(T)
		}
	}
	if t.Reset != nil {
		t.Reset(v)
	}
	return v
}

// Put hands v back to the pool. A nil v is ignored.
func (t *Typed[T]) Put(v *T) {
	if v != nil {
		t.p.Put(v)
	}
}
