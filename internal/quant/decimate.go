package quant

// Thresholds below which a block's decimation score lets the caller zero it.
const (
	DecimateLuma8x8 = 4 // one 8x8 luma block
	DecimateMB      = 6 // all luma of a macroblock
	DecimateChroma  = 7 // chroma AC of a macroblock
)

// DecimateMax is the score of a block that must not be zeroed.
const DecimateMax = 9

// Cost of a zero run of a given length preceding a level of magnitude one.
var dsTable4 = [16]uint8{3, 2, 2, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

var dsTable8 = [64]uint8{
	3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// decimateScore walks level from the end. Every non-zero level of
// magnitude one adds the table cost of the zero run below it; any larger
// level makes the block worth keeping.
func decimateScore(level []int16, table []uint8) int {
	i := len(level) - 1
	for i >= 0 && level[i] == 0 {
		i--
	}
	score := 0
	for i >= 0 {
		if c := level[i]; c > 1 || c < -1 {
			return DecimateMax
		}
		i--
		run := 0
		for i >= 0 && level[i] == 0 {
			i--
			run++
		}
		score += int(table[run])
	}
	return score
}

// DecimateScore15 scores the AC levels of a scanned 4x4 block. level[0]
// holds the separately coded DC and is ignored.
func DecimateScore15(level *[16]int16) int { return decimateScore(level[1:], dsTable4[:]) }

// DecimateScore16 scores a scanned 4x4 block.
func DecimateScore16(level *[16]int16) int { return decimateScore(level[:], dsTable4[:]) }

// DecimateScore64 scores a scanned 8x8 block.
func DecimateScore64(level *[64]int16) int { return decimateScore(level[:], dsTable8[:]) }
