// Package bitio reads and writes MSB-first bitstreams with the
// Exp-Golomb codes of H.264 syntax elements.
package bitio

import (
	"encoding/binary"
	"math/bits"
)

// BitWriter is implemented by Writer and Counter. The residual coder emits
// its syntax through it, so the same code path either produces bytes or
// only measures them.
type BitWriter interface {
	WriteBits(v uint32, n int)
	WriteUE(v uint32)
	WriteSE(v int)
	WriteTE(max, v int)
	Len() int
}

// Writer accumulates bits MSB-first in a 64-bit register and flushes them
// 32 bits at a time in big-endian byte order.
type Writer struct {
	bits uint64 // pending bits, right aligned
	used int    // number of pending bits
	buf  []byte
	cur  int
	n    int // bits written in total
}

// NewWriter creates a Writer with room for expectedSize bytes.
func NewWriter(expectedSize int) *Writer {
	if expectedSize < 256 {
		expectedSize = 256
	}
	return &Writer{buf: make([]byte, expectedSize)}
}

// Reset empties w and keeps its buffer.
func (w *Writer) Reset() {
	w.bits, w.used, w.cur, w.n = 0, 0, 0, 0
}

// WriteBits writes the n (0..32) low bits of v.
func (w *Writer) WriteBits(v uint32, n int) {
	if n == 0 {
		return
	}
	w.bits = w.bits<<uint(n) | uint64(v)&(1<<uint(n)-1)
	w.used += n
	w.n += n
	if w.used >= 32 {
		w.grow(4)
		binary.BigEndian.PutUint32(w.buf[w.cur:], uint32(w.bits>>uint(w.used-32)))
		w.cur += 4
		w.used -= 32
		w.bits &= 1<<uint(w.used) - 1
	}
}

// WriteUE writes v as an unsigned Exp-Golomb code.
func (w *Writer) WriteUE(v uint32) {
	x := uint64(v) + 1
	n := bits.Len64(x)
	w.WriteBits(0, n-1)
	if n > 32 {
		w.WriteBits(1, 1)
		n--
	}
	w.WriteBits(uint32(x), n)
}

// WriteSE writes v as a signed Exp-Golomb code: positive values map to odd
// codes.
func (w *Writer) WriteSE(v int) { w.WriteUE(seMap(v)) }

// WriteTE writes v as a truncated Exp-Golomb code with range max. A range
// of 1 is a single inverted bit.
func (w *Writer) WriteTE(max, v int) {
	switch {
	case max == 1:
		w.WriteBits(uint32(^v&1), 1)
	case max > 1:
		w.WriteUE(uint32(v))
	}
}

// WriteTrailing writes the stop bit and pads to a byte boundary.
func (w *Writer) WriteTrailing() {
	w.WriteBits(1, 1)
	if r := w.n & 7; r != 0 {
		w.WriteBits(0, 8-r)
	}
}

// Len returns the number of bits written.
func (w *Writer) Len() int { return w.n }

func (w *Writer) grow(n int) {
	if w.cur+n <= len(w.buf) {
		return
	}
	size := len(w.buf) * 3 / 2
	if size < w.cur+n {
		size = w.cur + n
	}
	tmp := make([]byte, size)
	copy(tmp, w.buf[:w.cur])
	w.buf = tmp
}

// Bytes flushes the pending bits, zero padding the last byte, and returns
// the stream. The returned slice aliases the buffer until the next write.
func (w *Writer) Bytes() []byte {
	used, pending := w.used, w.bits
	w.grow((used + 7) >> 3)
	out := w.cur
	for used > 0 {
		if used >= 8 {
			w.buf[out] = byte(pending >> uint(used-8))
		} else {
			w.buf[out] = byte(pending << uint(8-used))
		}
		out++
		used -= 8
	}
	return w.buf[:out]
}

func seMap(v int) uint32 {
	if v <= 0 {
		return uint32(-2 * v)
	}
	return uint32(2*v - 1)
}

// Counter is a BitWriter that only counts.
type Counter struct {
	n int
}

// Reset zeroes the count.
func (c *Counter) Reset() { c.n = 0 }

// WriteBits counts n bits.
func (c *Counter) WriteBits(_ uint32, n int) { c.n += n }

// WriteUE counts the size of v as an unsigned Exp-Golomb code.
func (c *Counter) WriteUE(v uint32) { c.n += ueSize(v) }

// WriteSE counts the size of v as a signed Exp-Golomb code.
func (c *Counter) WriteSE(v int) { c.n += ueSize(seMap(v)) }

// WriteTE counts the size of v as a truncated Exp-Golomb code.
func (c *Counter) WriteTE(max, v int) {
	switch {
	case max == 1:
		c.n++
	case max > 1:
		c.n += ueSize(uint32(v))
	}
}

// Len returns the number of bits counted.
func (c *Counter) Len() int { return c.n }

func ueSize(v uint32) int {
	return 2*bits.Len64(uint64(v)+1) - 1
}
