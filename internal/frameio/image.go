package frameio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("frameio: empty image")

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("frameio: decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// AlignMode selects how AlignImage reaches whole macroblocks.
type AlignMode int

const (
	AlignPad   AlignMode = iota // repeat the last row and column
	AlignScale                  // resample to the nearest multiple of 16
)

// ParseAlignMode parses "pad" or "scale".
func ParseAlignMode(s string) (AlignMode, error) {
	switch s {
	case "pad":
		return AlignPad, nil
	case "scale":
		return AlignScale, nil
	}
	return 0, fmt.Errorf("frameio: unknown align mode %q", s)
}

// AlignImage converts img to a macroblock-aligned Picture.
func AlignImage(img image.Image, mode AlignMode) *Picture {
	if mode == AlignScale {
		b := img.Bounds()
		w, h := roundTo16(b.Dx()), roundTo16(b.Dy())
		if w != b.Dx() || h != b.Dy() {
			dst := image.NewRGBA(image.Rect(0, 0, w, h))
			draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
			img = dst
		}
	}
	return FromImage(img).PadTo16()
}

func roundTo16(v int) int {
	return max((v+8)&^15, 16)
}
