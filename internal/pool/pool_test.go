package pool

import (
	"sync"
	"testing"
)

func TestGetLength(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"zero", 0},
		{"small", 100},
		{"4K", Size4K},
		{"qcif-plane", 240 * 208},
		{"cif-plane", 416 * 352},
		{"720p-plane", 1344 * 784},
		{"1080p-plane", 1984 * 1152},
		{"oversize", Size16M + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Get(tt.size)
			if len(b) != tt.size {
				t.Errorf("Get(%d): len = %d, want %d", tt.size, len(b), tt.size)
			}
			if cap(b) < tt.size {
				t.Errorf("Get(%d): cap = %d, want >= %d", tt.size, cap(b), tt.size)
			}
			Put(b)
		})
	}
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		size, want int
	}{
		{1, 0},
		{Size4K, 0},
		{Size4K + 1, 1},
		{Size64K, 1},
		{Size256K, 2},
		{Size1M + 1, 4},
		{Size16M, 5},
		{Size16M * 2, 5},
	}
	for _, tt := range tests {
		if got := bucketIndex(tt.size); got != tt.want {
			t.Errorf("bucketIndex(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestPutOddCapacity(t *testing.T) {
	// A buffer between two classes must never be handed out for the
	// larger class.
	Put(make([]byte, Size64K+10))
	for i := 0; i < 4; i++ {
		b := Get(Size256K)
		if len(b) != Size256K {
			t.Fatalf("Get(%d): len = %d", Size256K, len(b))
		}
	}
	Put(make([]byte, 100))
	Put(nil)
}

func TestTyped(t *testing.T) {
	type scratch struct {
		buf  []int
		uses int
	}
	p := Typed[scratch]{
		New:   func() *scratch { return &scratch{buf: make([]int, 16)} },
		Reset: func(s *scratch) { s.uses++ },
	}
	s := p.Get()
	if len(s.buf) != 16 || s.uses != 1 {
		t.Fatalf("Get: len %d uses %d", len(s.buf), s.uses)
	}
	p.Put(s)
	p.Put(nil)

	var zero Typed[scratch]
	if z := zero.Get(); z == nil || z.buf != nil {
		t.Errorf("zero Typed.Get = %+v", z)
	}
}

func TestConcurrency(t *testing.T) {
	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, size := range []int{512, 8192, 100000, 500000} {
					b := Get(size)
					if len(b) != size {
						t.Errorf("concurrent Get(%d): len = %d", size, len(b))
						return
					}
					for j := range b {
						b[j] = byte(j)
					}
					Put(b)
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkGet(b *testing.B) {
	for _, size := range []int{Size64K, Size1M, Size4M} {
		b.Run("", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Put(Get(size))
			}
		})
	}
}
