package residual

import (
	"errors"

	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/quant"
)

// ErrSyntax is returned when a coded block does not parse.
var ErrSyntax = errors.New("residual: invalid block syntax")

// Block syntax, modelled on CAVLC with Exp-Golomb codes in place of the
// context-adaptive tables:
//
//	ue(total<<2 | trailingOnes)
//	trailingOnes sign bits, highest index first
//	se(level) for the remaining levels
//	ue(totalZeros)        when 0 < total < len(block)
//	ue(run) per level     while zeros remain, except for the last level

// WriteBlock writes the scanned levels of one block (at most 16) and
// returns the number of non-zero levels. rl is scratch.
func WriteBlock(bw bitio.BitWriter, level []int16, rl *quant.RunLevels) int {
	total := quant.RunLevel(level, rl)
	t1 := 0
	for t1 < total && t1 < 3 && (rl.Level[t1] == 1 || rl.Level[t1] == -1) {
		t1++
	}
	bw.WriteUE(uint32(total<<2 | t1))
	if total == 0 {
		return 0
	}
	for k := 0; k < t1; k++ {
		bw.WriteBits(uint32(rl.Level[k]>>15&1), 1)
	}
	for k := t1; k < total; k++ {
		bw.WriteSE(int(rl.Level[k]))
	}
	if total == len(level) {
		return total
	}
	zeros := rl.TotalZeros()
	bw.WriteUE(uint32(zeros))
	for k := 0; k < total-1 && zeros > 0; k++ {
		bw.WriteUE(uint32(rl.Run[k]))
		zeros -= int(rl.Run[k])
	}
	return total
}

// ReadBlock parses one block written by WriteBlock into level, which must
// have the length the block was written with.
func ReadBlock(r *bitio.Reader, level []int16) error {
	clear(level)
	v := r.ReadUE()
	total, t1 := int(v>>2), int(v&3)
	if total > len(level) || t1 > total || t1 > 3 {
		return ErrSyntax
	}
	if total == 0 {
		return r.Err()
	}
	var levels [64]int16
	for k := 0; k < t1; k++ {
		levels[k] = 1 - 2*int16(r.ReadBits(1))
	}
	for k := t1; k < total; k++ {
		l := r.ReadSE()
		if l == 0 || l < -32768 || l > 32767 {
			return ErrSyntax
		}
		levels[k] = int16(l)
	}
	zeros := 0
	if total < len(level) {
		zeros = int(r.ReadUE())
	}
	pos := total + zeros - 1
	if pos >= len(level) {
		return ErrSyntax
	}
	for k := 0; k < total; k++ {
		if pos < 0 {
			return ErrSyntax
		}
		level[pos] = levels[k]
		run := 0
		if k < total-1 && zeros > 0 {
			run = int(r.ReadUE())
			if run > zeros {
				return ErrSyntax
			}
			zeros -= run
		}
		pos -= 1 + run
	}
	return r.Err()
}
