package scan

// Scan orders map a 1D scan index to a raster position y*N+x.
var (
	frame4x4 = [16]uint8{0, 1, 4, 8, 5, 2, 3, 6, 9, 12, 13, 10, 7, 11, 14, 15}
	field4x4 = [16]uint8{0, 4, 1, 8, 12, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}

	frame8x8 = [64]uint8{
		0, 1, 8, 16, 9, 2, 3, 10, 17, 24, 32, 25, 18, 11, 4, 5,
		12, 19, 26, 33, 40, 48, 41, 34, 27, 20, 13, 6, 7, 14, 21, 28,
		35, 42, 49, 56, 57, 50, 43, 36, 29, 22, 15, 23, 30, 37, 44, 51,
		58, 59, 52, 45, 38, 31, 39, 46, 53, 60, 61, 54, 47, 55, 62, 63,
	}
	field8x8 = [64]uint8{
		0, 8, 16, 1, 9, 24, 32, 17, 2, 25, 40, 48, 56, 33, 10, 3,
		18, 41, 49, 57, 26, 11, 4, 19, 34, 42, 50, 58, 27, 12, 5, 20,
		35, 43, 51, 59, 28, 13, 6, 21, 36, 44, 52, 60, 29, 14, 22, 37,
		45, 53, 61, 30, 7, 15, 38, 46, 54, 62, 23, 31, 39, 47, 55, 63,
	}
)

// Inverse orders map a raster position to its scan index.
var (
	invFrame4x4, invField4x4 [16]uint8
	invFrame8x8, invField8x8 [64]uint8
)

func invert(dst, src []uint8) {
	for i, pos := range src {
		dst[pos] = uint8(i)
	}
}

func init() {
	invert(invFrame4x4[:], frame4x4[:])
	invert(invField4x4[:], field4x4[:])
	invert(invFrame8x8[:], frame8x8[:])
	invert(invField8x8[:], field8x8[:])
}

// Table4x4 returns the scan order of a 4x4 block.
func Table4x4(o Order) *[16]uint8 {
	if o == Field {
		return &field4x4
	}
	return &frame4x4
}

// Table8x8 returns the scan order of an 8x8 block.
func Table8x8(o Order) *[64]uint8 {
	if o == Field {
		return &field8x8
	}
	return &frame8x8
}

// Position4x4 returns the scan index of raster position pos.
func Position4x4(o Order, pos int) int {
	if o == Field {
		return int(invField4x4[pos])
	}
	return int(invFrame4x4[pos])
}

// Position8x8 returns the scan index of raster position pos.
func Position8x8(o Order, pos int) int {
	if o == Field {
		return int(invField8x8[pos])
	}
	return int(invFrame8x8[pos])
}
