package render

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/deepteams/avcore/internal/analysis"
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/me"
)

func testResult() *analysis.Result {
	res := &analysis.Result{
		Width: 48, Height: 32, MBWidth: 3, MBHeight: 2,
		MBs:   make([]analysis.MB, 6),
		Recon: frameio.NewPicture(48, 32),
	}
	res.At(1, 0).MV = [4]me.MV{me.MakeMV(16, 0), me.MakeMV(16, 0), me.MakeMV(16, 0), me.MakeMV(16, 0)}
	res.At(2, 1).Pred = analysis.PredL1
	res.At(2, 1).MV1 = me.MakeMV(0, -12)
	res.At(0, 1).Part = analysis.Part8x8
	return res
}

func TestMVFieldSize(t *testing.T) {
	for _, scale := range []int{0, 1, 3} {
		img := MVField(testResult(), Options{Scale: scale})
		want := max(scale, 1)
		if b := img.Bounds(); b.Dx() != 48*want || b.Dy() != 32*want {
			t.Errorf("scale %d: bounds %v", scale, b)
		}
	}
}

func TestMVFieldDots(t *testing.T) {
	img := MVField(testResult(), Options{Scale: 2})
	// Macroblock (0, 0) has a zero L0 vector: a dot at its centre.
	r, g, b, _ := img.At(16, 16).RGBA()
	if r>>8 < 128 || g>>8 > 128 || b>>8 > 128 {
		t.Errorf("centre of mb (0,0) = %d %d %d, want the L0 colour", r>>8, g>>8, b>>8)
	}
	// Macroblock (1, 0) points 4 pels right; the arrow passes x = 16*1+10.
	if r, _, _, _ := img.At(2*(16+10), 16).RGBA(); r>>8 < 128 {
		t.Errorf("arrow of mb (1,0) missing: red %d", r>>8)
	}
	// Far from any arrow the background stays black.
	if r, g, b, _ := img.At(2*40, 2*4).RGBA(); r|g|b != 0 {
		t.Errorf("background = %d %d %d, want black", r>>8, g>>8, b>>8)
	}
}

func TestPNG(t *testing.T) {
	img := MVField(testResult(), DefaultOptions())
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	dec, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if dec.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds %v, want %v", dec.Bounds(), img.Bounds())
	}

	path := filepath.Join(t.TempDir(), "mv.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
}
