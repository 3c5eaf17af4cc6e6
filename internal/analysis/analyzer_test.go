package analysis

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/deepteams/avcore/internal/bitio"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/me"
)

const testW, testH = 96, 64

// smoothPicture returns a picture of noise blurred twice with a 5x5 box
// and flat chroma.
func smoothPicture(rng *rand.Rand, w, h int) *frameio.Picture {
	p := frameio.NewPicture(w, h)
	for i := range p.Y {
		p.Y[i] = byte(rng.Intn(256))
	}
	for pass := 0; pass < 2; pass++ {
		q := make([]byte, len(p.Y))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sum, n := 0, 0
				for dy := -2; dy <= 2; dy++ {
					for dx := -2; dx <= 2; dx++ {
						xx, yy := x+dx, y+dy
						if xx >= 0 && xx < w && yy >= 0 && yy < h {
							sum += int(p.Y[yy*w+xx])
							n++
						}
					}
				}
				q[y*w+x] = byte(sum / n)
			}
		}
		p.Y = q
	}
	for i := range p.Cb {
		p.Cb[i], p.Cr[i] = 128, 128
	}
	return p
}

// shifted returns p moved so that pixel (x, y) shows p at (x+dx, y+dy),
// repeating the edges.
func shifted(p *frameio.Picture, dx, dy int) *frameio.Picture {
	q := frameio.NewPicture(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			sx := dsp.Clip3(x+dx, 0, p.Width-1)
			sy := dsp.Clip3(y+dy, 0, p.Height-1)
			q.Y[y*q.YStride+x] = p.Y[sy*p.YStride+sx]
		}
	}
	copy(q.Cb, p.Cb)
	copy(q.Cr, p.Cr)
	return q
}

func newTestAnalyzer(t *testing.T, mod func(*Options)) *Analyzer {
	t.Helper()
	opts := DefaultOptions()
	if mod != nil {
		mod(&opts)
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAnalyzeGlobalMotion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ref := smoothPicture(rng, testW, testH)
	cur := shifted(ref, 3, -2)
	r := NewReference(ref)
	defer r.Release()

	a := newTestAnalyzer(t, nil)
	res, err := a.Analyze(context.Background(), cur, []*Reference{r}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := me.MakeMV(12, -8)
	hits := 0
	for _, m := range res.MBs {
		if m.MV[0] == want {
			hits++
		}
	}
	if hits*4 < len(res.MBs)*3 {
		t.Errorf("%d of %d macroblocks found %v", hits, len(res.MBs), want)
	}
	if res.Preds[PredL0] != len(res.MBs) {
		t.Errorf("Preds = %v, want all L0", res.Preds)
	}
	if res.PredPSNR < 30 {
		t.Errorf("PredPSNR = %.2f, want >= 30", res.PredPSNR)
	}
	if res.PSNR < res.PredPSNR-0.5 {
		t.Errorf("PSNR %.2f below prediction PSNR %.2f", res.PSNR, res.PredPSNR)
	}
}

func TestAnalyzeWorkersAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	ref := smoothPicture(rng, testW, testH)
	cur := shifted(ref, -5, 1)
	for i := range cur.Y {
		cur.Y[i] = dsp.Clip8b(int(cur.Y[i]) + rng.Intn(9) - 4)
	}
	r := NewReference(ref)
	defer r.Release()

	run := func(workers int) *Result {
		a := newTestAnalyzer(t, func(o *Options) {
			o.Workers = workers
			o.Bitstream = true
			o.ME.Method = me.UMH
		})
		res, err := a.Analyze(context.Background(), cur, []*Reference{r}, nil)
		if err != nil {
			t.Fatalf("Analyze with %d workers: %v", workers, err)
		}
		return res
	}
	one, four := run(1), run(4)
	if diff := cmp.Diff(one.MBs, four.MBs); diff != "" {
		t.Errorf("macroblocks differ (-1 worker +4 workers):\n%s", diff)
	}
	if diff := cmp.Diff(one.Rows, four.Rows); diff != "" {
		t.Errorf("rows differ (-1 worker +4 workers):\n%s", diff)
	}
	if one.Bits != four.Bits || one.SSE != four.SSE {
		t.Errorf("bits %d/%d sse %d/%d", one.Bits, four.Bits, one.SSE, four.SSE)
	}
}

func TestAnalyzeStaticRows(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pic := smoothPicture(rng, testW, testH)
	r := NewReference(pic)
	defer r.Release()

	a := newTestAnalyzer(t, func(o *Options) { o.Bitstream = true })
	res, err := a.Analyze(context.Background(), pic, []*Reference{r}, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// An unchanged picture codes every macroblock as type 0, two zero
	// vector differences, an empty luma residual and two empty chroma DCs.
	const mbBits = 6
	if want := mbBits * len(res.MBs); res.Bits != want {
		t.Errorf("Bits = %d, want %d", res.Bits, want)
	}
	if res.PSNR != 99 || res.SSIM < 0.999 {
		t.Errorf("PSNR %.2f SSIM %.4f, want a lossless reconstruction", res.PSNR, res.SSIM)
	}
	if len(res.Rows) != res.MBHeight {
		t.Fatalf("len(Rows) = %d, want %d", len(res.Rows), res.MBHeight)
	}
	for y, row := range res.Rows {
		br := bitio.NewReader(row)
		for x := 0; x < res.MBWidth; x++ {
			typ, mvx, mvy, cbp := br.ReadUE(), br.ReadSE(), br.ReadSE(), br.ReadUE()
			cb, cr := br.ReadBits(1), br.ReadBits(1)
			if typ != mbTypeL0 || mvx != 0 || mvy != 0 || cbp != 0 || cb != 0 || cr != 0 {
				t.Errorf("mb (%d,%d): type %d mvd (%d,%d) cbp %d chroma %d %d", x, y, typ, mvx, mvy, cbp, cb, cr)
			}
		}
		if err := br.Err(); err != nil {
			t.Errorf("row %d: %v", y, err)
		}
	}
}

func TestAnalyzeFutureReference(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	past := smoothPicture(rng, testW, testH)
	cur := smoothPicture(rng, testW, testH)
	r0, r1 := NewReference(past), NewReference(cur)
	defer r0.Release()
	defer r1.Release()

	a := newTestAnalyzer(t, nil)
	res, err := a.Analyze(context.Background(), cur, []*Reference{r0}, r1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if n := res.Preds[PredL1]; n*4 < len(res.MBs)*3 {
		t.Errorf("%d of %d macroblocks predicted from the future reference", n, len(res.MBs))
	}
	for i, m := range res.MBs {
		if m.Pred == PredL1 && !m.MV1.IsZero() {
			t.Errorf("mb %d: L1 vector %v, want zero", i, m.MV1)
		}
	}
}

func TestAnalyzeMultipleRefs(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	far := smoothPicture(rng, testW, testH)
	near := smoothPicture(rng, testW, testH)
	cur := shifted(far, 2, 0)
	refs := []*Reference{NewReference(near), NewReference(far)}
	defer refs[0].Release()
	defer refs[1].Release()

	a := newTestAnalyzer(t, nil)
	res, err := a.Analyze(context.Background(), cur, refs, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	hits := 0
	for _, m := range res.MBs {
		if m.Ref == 1 {
			hits++
		}
	}
	if hits*4 < len(res.MBs)*3 {
		t.Errorf("%d of %d macroblocks chose the matching reference", hits, len(res.MBs))
	}
}

func TestAnalyzeMatchingReferenceFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	match := smoothPicture(rng, testW, testH)
	cur := shifted(match, 2, 0)
	refs := []*Reference{NewReference(match)}
	for i := 0; i < 3; i++ {
		refs = append(refs, NewReference(smoothPicture(rng, testW, testH)))
	}
	defer func() {
		for _, r := range refs {
			r.Release()
		}
	}()

	a := newTestAnalyzer(t, func(o *Options) { o.ME.Subme = 9 })
	res, err := a.Analyze(context.Background(), cur, refs, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	hits := 0
	for _, m := range res.MBs {
		if m.Ref == 0 && m.MV[0] == me.MakeMV(8, 0) {
			hits++
		}
	}
	if hits*4 < len(res.MBs)*3 {
		t.Errorf("%d of %d macroblocks kept the first reference at (8,0)", hits, len(res.MBs))
	}
}

func TestAnalyzeErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	pic := smoothPicture(rng, testW, testH)
	r := NewReference(pic)
	defer r.Release()
	small := NewReference(smoothPicture(rng, 32, 32))
	defer small.Release()
	many := make([]*Reference, 17)
	for i := range many {
		many[i] = r
	}

	a := newTestAnalyzer(t, nil)
	tests := []struct {
		name string
		cur  *frameio.Picture
		l0   []*Reference
		l1   *Reference
		want error
	}{
		{"unaligned", frameio.NewPicture(40, 32), []*Reference{r}, nil, ErrUnaligned},
		{"no refs", pic, nil, nil, ErrNoRefs},
		{"too many refs", pic, many, nil, ErrTooManyRefs},
		{"past size", pic, []*Reference{small}, nil, ErrRefSize},
		{"future size", pic, []*Reference{r}, small, ErrRefSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Analyze(context.Background(), tt.cur, tt.l0, tt.l1); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAnalyzeCanceled(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pic := smoothPicture(rng, testW, testH)
	r := NewReference(pic)
	defer r.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := newTestAnalyzer(t, func(o *Options) { o.Workers = 3 })
	if _, err := a.Analyze(ctx, pic, []*Reference{r}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// The analyzer stays usable.
	if _, err := a.Analyze(context.Background(), pic, []*Reference{r}, nil); err != nil {
		t.Fatalf("Analyze after cancel: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	if o := DefaultOptions(); o.Validate() != nil {
		t.Fatalf("DefaultOptions invalid: %v", o.Validate())
	}
	bad := []func(*Options){
		func(o *Options) { o.QP = -1 },
		func(o *Options) { o.QP = 52 },
		func(o *Options) { o.BidirWeight = 65 },
		func(o *Options) { o.NoiseReduction = -4 },
		func(o *Options) { o.Workers = -1 },
		func(o *Options) { o.ME.Range = 1 },
	}
	for i, mod := range bad {
		o := DefaultOptions()
		mod(&o)
		if _, err := New(o); err == nil {
			t.Errorf("case %d: New succeeded", i)
		}
	}
}

func TestPredictMV(t *testing.T) {
	fs := &frameState{mbW: 3, mbH: 2, res: &Result{MBWidth: 3, MBHeight: 2, MBs: make([]MB, 6)}}
	w := &worker{fs: fs}
	set := func(x, y int, mv me.MV, ref int8) {
		m := fs.res.At(x, y)
		m.MV = [4]me.MV{mv, mv, mv, mv}
		m.Ref = ref
	}
	set(0, 0, me.MakeMV(4, 0), 0)
	set(1, 0, me.MakeMV(8, 4), 0)
	set(2, 0, me.MakeMV(-4, 12), 0)
	set(0, 1, me.MakeMV(6, 2), 0)

	tests := []struct {
		x, y, ref int
		want      me.MV
	}{
		{0, 0, 0, me.MV{}},         // no neighbours
		{1, 0, 0, me.MakeMV(4, 0)}, // only the left one
		{1, 1, 0, me.MakeMV(6, 4)}, // median of left, top and top-right
		{2, 1, 0, me.MakeMV(0, 4)}, // top-left stands in for top-right
		{1, 1, 1, me.MakeMV(6, 4)}, // no neighbour uses ref 1
		{0, 1, 0, me.MakeMV(4, 0)}, // missing left counts as zero
	}
	for _, tt := range tests {
		if got := w.predictMV(tt.x, tt.y, 0, tt.ref); got != tt.want {
			t.Errorf("predictMV(%d, %d, ref %d) = %v, want %v", tt.x, tt.y, tt.ref, got, tt.want)
		}
	}
}

func BenchmarkAnalyze(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	ref := smoothPicture(rng, 256, 128)
	cur := shifted(ref, 3, 2)
	r := NewReference(ref)
	defer r.Release()
	a, err := New(DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Analyze(context.Background(), cur, []*Reference{r}, nil); err != nil {
			b.Fatal(err)
		}
	}
}
