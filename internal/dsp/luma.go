package dsp

// BT.601 RGB to luma using 16-bit fixed point.
const (
	yuvFix  = 16
	yuvHalf = 1 << (yuvFix - 1)

	kRGBToY0 = 16839 // 0.2568 * (1 << 16)
	kRGBToY1 = 33059 // 0.5041 * (1 << 16)
	kRGBToY2 = 6420  // 0.0979 * (1 << 16)
)

// RGBToY converts an 8-bit RGB triple to studio-range luma [16, 235].
func RGBToY(r, g, b int) uint8 {
	return uint8((kRGBToY0*r + kRGBToY1*g + kRGBToY2*b + yuvHalf + (16 << yuvFix)) >> yuvFix)
}

// RGBToCb converts an 8-bit RGB triple to studio-range blue-difference
// chroma.
func RGBToCb(r, g, b int) uint8 {
	return Clip8b((-9719*r - 19081*g + 28800*b + yuvHalf + (128 << yuvFix)) >> yuvFix)
}

// RGBToCr converts an 8-bit RGB triple to studio-range red-difference
// chroma.
func RGBToCr(r, g, b int) uint8 {
	return Clip8b((28800*r - 24116*g - 4684*b + yuvHalf + (128 << yuvFix)) >> yuvFix)
}
