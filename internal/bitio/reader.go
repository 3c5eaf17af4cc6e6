package bitio

import "errors"

// ErrOverrun is returned when a read runs past the end of the data.
var ErrOverrun = errors.New("bitio: read past end of data")

// Reader reads an MSB-first bitstream. Reads past the end return zero bits
// and latch ErrOverrun.
type Reader struct {
	buf []byte
	pos int // bit position
	err error
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// ReadBits reads n (0..32) bits.
func (r *Reader) ReadBits(n int) uint32 {
	var v uint32
	for ; n > 0; n-- {
		v = v<<1 | r.readBit()
	}
	return v
}

func (r *Reader) readBit() uint32 {
	if r.pos >= len(r.buf)*8 {
		r.err = ErrOverrun
		return 0
	}
	b := r.buf[r.pos>>3] >> uint(7-r.pos&7) & 1
	r.pos++
	return uint32(b)
}

// ReadUE reads an unsigned Exp-Golomb code.
func (r *Reader) ReadUE() uint32 {
	zeros := 0
	for r.readBit() == 0 {
		if r.err != nil || zeros == 32 {
			r.err = ErrOverrun
			return 0
		}
		zeros++
	}
	if zeros == 32 {
		return uint32(1<<32 - 1 + uint64(r.ReadBits(32)))
	}
	return 1<<uint(zeros) - 1 + r.ReadBits(zeros)
}

// ReadSE reads a signed Exp-Golomb code.
func (r *Reader) ReadSE() int {
	k := int(r.ReadUE())
	if k&1 != 0 {
		return (k + 1) / 2
	}
	return -k / 2
}

// ReadTE reads a truncated Exp-Golomb code with range max.
func (r *Reader) ReadTE(max int) int {
	switch {
	case max == 1:
		return int(r.ReadBits(1) ^ 1)
	case max > 1:
		return int(r.ReadUE())
	}
	return 0
}

// Pos returns the number of bits consumed.
func (r *Reader) Pos() int { return r.pos }

// Err returns ErrOverrun once a read ran past the end.
func (r *Reader) Err() error { return r.err }
