// Package analysis runs motion estimation and residual coding over whole
// pictures. Macroblock rows are processed in parallel as a wavefront: a
// row may analyze macroblock x once the row above has finished x+1, which
// keeps every neighbour the vector prediction reads available.
package analysis

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/deepteams/avcore/internal/cost"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/logging"
	"github.com/deepteams/avcore/internal/me"
)

// Errors returned by Analyze.
var (
	ErrUnaligned   = errors.New("analysis: picture size is not a multiple of 16")
	ErrNoRefs      = errors.New("analysis: no reference pictures")
	ErrRefSize     = errors.New("analysis: reference size differs from the picture")
	ErrTooManyRefs = errors.New("analysis: more than 16 past references")
)

// mvRange is the vertical vector range in full pels.
const mvRange = 512

// maxWorkers caps the row workers. The wavefront lag limits useful
// parallelism to about half the macroblock width anyway.
const maxWorkers = 16

// Reference is a picture prepared for motion search.
type Reference struct {
	Frame *me.Frame
	Pic   *frameio.Picture
}

// NewReference interpolates the luma of p. Release it when done.
func NewReference(p *frameio.Picture) *Reference {
	f := me.NewFrame(p.Width, p.Height)
	f.Load(p.Y, p.YStride)
	return &Reference{Frame: f, Pic: p}
}

// Release returns the interpolated planes to the pool.
func (r *Reference) Release() { r.Frame.Release() }

// Analyzer analyzes a sequence of pictures. It keeps the vectors of the
// previous picture as search candidates and the denoise statistics of its
// workers. Analyze calls must not overlap.
type Analyzer struct {
	opts    Options
	log     logging.Logger
	costs   *cost.Cache
	workers []*worker
	rs      *rowSync
	prev    *Result
}

// New returns an Analyzer for opts.
func New(opts Options) (*Analyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNoop()
	}
	return &Analyzer{
		opts:  opts,
		log:   log.WithComponent("analysis"),
		costs: cost.NewCache(cost.DefaultRange),
	}, nil
}

// Options returns the options a analyzes with.
func (a *Analyzer) Options() Options { return a.opts }

// Reset forgets the previous picture.
func (a *Analyzer) Reset() { a.prev = nil }

// frameState is the shared state of one Analyze call.
type frameState struct {
	cur      *frameio.Picture
	l0       []*Reference
	l1       *Reference
	res      *Result
	prev     *Result
	mbW, mbH int
	costs    *cost.MVTable
	nextRow  atomic.Int32
}

// Analyze finds vectors and codes the residual of every macroblock of cur.
// l0 holds the past references, nearest first; l1, when not nil, is a
// future reference that enables bi-prediction.
func (a *Analyzer) Analyze(ctx context.Context, cur *frameio.Picture, l0 []*Reference, l1 *Reference) (*Result, error) {
	if !cur.Aligned() {
		return nil, ErrUnaligned
	}
	if len(l0) == 0 {
		return nil, ErrNoRefs
	}
	if len(l0) > 16 {
		return nil, ErrTooManyRefs
	}
	for _, r := range append(l0[:len(l0):len(l0)], l1) {
		if r != nil && (r.Frame.Width != cur.Width || r.Frame.Height != cur.Height) {
			return nil, ErrRefSize
		}
	}

	mbW, mbH := cur.Width/16, cur.Height/16
	fs := &frameState{
		cur:   cur,
		l0:    l0,
		l1:    l1,
		res:   newResult(cur, a.opts.Chroma),
		mbW:   mbW,
		mbH:   mbH,
		costs: a.costs.Table(a.opts.QP),
	}
	if a.prev != nil && a.prev.MBWidth == mbW && a.prev.MBHeight == mbH {
		fs.prev = a.prev
	}
	if a.opts.Bitstream {
		fs.res.Rows = make([][]byte, mbH)
	}

	n := a.opts.Workers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	n = max(min(n, maxWorkers, mbH), 1)
	if err := a.ensureWorkers(n, mbH); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	for _, w := range a.workers[:n] {
		w.begin(fs)
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			defer w.end()
			for {
				y := int(fs.nextRow.Add(1) - 1)
				if y >= mbH {
					return
				}
				if ctx.Err() != nil {
					a.rs.signal(y, int32(mbW))
					continue
				}
				w.analyzeRow(y)
				a.log.Debug("Row %d analyzed: %d bits", y, w.rowBits)
			}
		}(w)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		a.log.Warn("Analysis canceled: %v", err)
		return nil, err
	}

	res := fs.res
	for _, w := range a.workers[:n] {
		w.merge(res)
		if nr := w.coder.NoiseReduction(); nr != nil {
			nr.Update()
		}
	}
	finish(fs)
	a.prev = res
	a.log.Info("Frame %dx%d analyzed: %d bits, PSNR %.2f dB", res.Width, res.Height, res.Bits, res.PSNR)
	return res, nil
}

func (a *Analyzer) ensureWorkers(n, mbH int) error {
	for len(a.workers) < n {
		w, err := newWorker(a)
		if err != nil {
			return err
		}
		a.workers = append(a.workers, w)
	}
	if a.rs == nil || len(a.rs.rows) < mbH {
		a.rs = newRowSync(mbH)
	}
	a.rs.reset(mbH)
	return nil
}

func newResult(cur *frameio.Picture, chroma bool) *Result {
	mbW, mbH := cur.Width/16, cur.Height/16
	res := &Result{
		Width:    cur.Width,
		Height:   cur.Height,
		MBWidth:  mbW,
		MBHeight: mbH,
		MBs:      make([]MB, mbW*mbH),
		Recon:    frameio.NewPicture(cur.Width, cur.Height),
	}
	if !chroma {
		cw, ch := cur.ChromaSize()
		for y := 0; y < ch; y++ {
			copy(res.Recon.Cb[y*res.Recon.CStride:y*res.Recon.CStride+cw], cur.Cb[y*cur.CStride:])
			copy(res.Recon.Cr[y*res.Recon.CStride:y*res.Recon.CStride+cw], cur.Cr[y*cur.CStride:])
		}
	}
	return res
}

// ssimStep is the SSIM window spacing in pixels.
const ssimStep = 4

// finish computes the picture-level quality figures.
func finish(fs *frameState) {
	res := fs.res
	n := res.Width * res.Height
	res.PSNR = dsp.PSNRFromSSE(res.SSE, n)
	res.PredPSNR = dsp.PSNRFromSSE(res.PredSSE, n)
	res.SSIM = dsp.SSIM(fs.cur.Y, fs.cur.YStride, res.Recon.Y, res.Recon.YStride, res.Width, res.Height, ssimStep)
}
