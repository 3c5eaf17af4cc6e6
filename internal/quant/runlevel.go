package quant

// Coef is the element type of a coefficient block.
type Coef interface {
	~int16 | ~int32
}

// CoeffLast returns the index of the last non-zero level, or -1 when every
// level is zero.
func CoeffLast[T Coef](level []T) int {
	for i := len(level) - 1; i >= 0; i-- {
		if level[i] != 0 {
			return i
		}
	}
	return -1
}

// RunLevels lists the non-zero levels of a scanned block from the highest
// index down.
type RunLevels struct {
	Last  int       // index of the last non-zero level, -1 if none
	Total int       // number of non-zero levels
	Level [64]int16 // Level[k] is the k-th non-zero level from the end
	Run   [64]uint8 // zeros between Level[k] and the next lower non-zero level
	Mask  uint64    // bit i set when level i is non-zero
}

// TotalZeros returns the number of zeros below Last.
func (rl *RunLevels) TotalZeros() int {
	if rl.Total == 0 {
		return 0
	}
	return rl.Last + 1 - rl.Total
}

// RunLevel fills rl from level and returns the number of non-zero levels.
// level must not be longer than 64.
func RunLevel[T Coef](level []T, rl *RunLevels) int {
	*rl = RunLevels{Last: CoeffLast(level)}
	i := rl.Last
	for i >= 0 {
		k := rl.Total
		rl.Level[k] = int16(level[i])
		rl.Mask |= 1 << uint(i)
		i--
		run := 0
		for i >= 0 && level[i] == 0 {
			i--
			run++
		}
		if i >= 0 {
			rl.Run[k] = uint8(run)
		}
		rl.Total++
	}
	return rl.Total
}
