package residual

import (
	"slices"
	"testing"

	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/quant"
)

func FuzzReadBlock(f *testing.F) {
	var rl quant.RunLevels
	for _, level := range [][]int16{
		make([]int16, 16),
		{7, -3, 0, 1, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{-40, 1, 1, -1},
	} {
		w := bitio.NewWriter(0)
		WriteBlock(w, level, &rl)
		f.Add(w.Bytes(), uint8(len(level)))
	}
	f.Add([]byte{0xff, 0xff, 0xff, 0xff}, uint8(16))

	f.Fuzz(func(t *testing.T, data []byte, n uint8) {
		size := 16
		if n == 4 || n == 15 {
			size = int(n)
		}
		level := make([]int16, size)
		if err := ReadBlock(bitio.NewReader(data), level); err != nil {
			return
		}
		var rl quant.RunLevels
		w := bitio.NewWriter(0)
		WriteBlock(w, level, &rl)
		got := make([]int16, size)
		if err := ReadBlock(bitio.NewReader(w.Bytes()), got); err != nil {
			t.Fatalf("re-read of %v: %v", level, err)
		}
		if !slices.Equal(got, level) {
			t.Fatalf("re-read %v, want %v", got, level)
		}
	})
}
