package me

import (
	"fmt"

	"github.com/deepteams/avcore/internal/cost"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/pool"
)

// MaxSubme is the highest sub-pel effort level.
const MaxSubme = 9

// costMax stands for "not evaluated" in cost comparisons. It leaves room
// for the 17/16 gates of the RD refinements.
const costMax = 1 << 28

// Sub-pel iterations per effort level: {refine hpel, refine qpel, search
// hpel, search qpel}. The search columns run on every candidate partition,
// the refine ones only on the winner.
var subpelIters = [MaxSubme + 1][4]int{
	{0, 0, 0, 0},
	{1, 1, 0, 0},
	{0, 1, 1, 0},
	{0, 2, 1, 0},
	{0, 2, 1, 1},
	{0, 2, 1, 2},
	{0, 0, 2, 2},
	{0, 0, 2, 2},
	{0, 0, 4, 10},
	{0, 0, 4, 10},
}

// Config holds the motion search parameters shared by every block of an
// analysis run.
type Config struct {
	Method Method // integer-pel strategy
	Range  int    // search range in full pels, at least 4
	Subme  int    // sub-pel effort, 0..MaxSubme
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{
		Method: Hex,
		Range:  16,
		Subme:  7,
	}
}

// Validate reports whether c is usable.
func (c Config) Validate() error {
	if c.Method < Dia || c.Method > TESA {
		return fmt.Errorf("me: invalid method %d", c.Method)
	}
	if c.Range < 4 || c.Range > 1024 {
		return fmt.Errorf("me: range %d out of [4, 1024]", c.Range)
	}
	if c.Subme < 0 || c.Subme > MaxSubme {
		return fmt.Errorf("me: subme %d out of [0, %d]", c.Subme, MaxSubme)
	}
	return nil
}

// Block is the per-partition search state. The caller fills the inputs;
// the search writes MV, Cost and CostMV.
type Block struct {
	Size  dsp.PixelSize
	Src   []byte // source pixels, dsp.EncStride
	Ref   *Frame
	X, Y  int // partition origin in the picture
	Costs *cost.MVTable
	MVP   MV
	Win   Window

	MV     MV  // best vector, quarter pels
	Cost   int // distortion plus CostMV
	CostMV int // MV bit cost of MV
}

// mvsad is a TESA candidate.
type mvsad struct {
	sad    int
	mx, my int
}

// Searcher runs searches for one goroutine at a time. It owns all scratch
// memory a search needs; use one Searcher per worker.
type Searcher struct {
	cfg Config

	pix     [2][16 * 16]byte
	avg     [16 * 16]byte
	visited [8][8][8]uint8
	xs      []int
	cands   []mvsad

	// Per-block state set by bind.
	b              *Block
	bw, bh         int
	fpelcmp, mbcmp dsp.PixelCmp
	costX, costY   cost.Row
}

var searchers = pool.Typed[Searcher]{}

// NewSearcher returns a Searcher for cfg. cfg must be valid.
func NewSearcher(cfg Config) *Searcher {
	return &Searcher{cfg: cfg}
}

// AcquireSearcher returns a pooled Searcher for cfg. Release it when done.
func AcquireSearcher(cfg Config) *Searcher {
	s := searchers.Get()
	s.cfg = cfg
	return s
}

// Release hands s back to the pool.
func (s *Searcher) Release() {
	s.b = nil
	searchers.Put(s)
}

// Config returns the configuration s searches with.
func (s *Searcher) Config() Config { return s.cfg }

func (s *Searcher) bind(b *Block) {
	s.b = b
	s.bw, s.bh = b.Size.Width(), b.Size.Height()
	s.costX = b.Costs.Around(int(b.MVP.X))
	s.costY = b.Costs.Around(int(b.MVP.Y))
	if s.cfg.Subme > 1 {
		s.mbcmp = dsp.SATD[b.Size]
	} else {
		s.mbcmp = dsp.SAD[b.Size]
	}
	if s.cfg.Method == TESA && s.cfg.Subme > 1 {
		s.fpelcmp = dsp.SATD[b.Size]
	} else {
		s.fpelcmp = dsp.SAD[b.Size]
	}
}

// fpel returns the reference at full-pel vector (mx, my).
func (s *Searcher) fpel(mx, my int) []byte {
	return s.b.Ref.Full(s.b.X+mx, s.b.Y+my)
}

// bitsMVD returns the MV cost of the full-pel vector (mx, my).
func (s *Searcher) bitsMVD(mx, my int) int {
	return s.costX.At(mx<<2) + s.costY.At(my<<2)
}

// costFpel returns the cost of the full-pel vector (mx, my).
func (s *Searcher) costFpel(mx, my int) int {
	return s.fpelcmp(s.b.Src, dsp.EncStride, s.fpel(mx, my), s.b.Ref.Stride) + s.bitsMVD(mx, my)
}

// costSpel returns the cost of the quarter-pel vector (mx, my) under cmp.
func (s *Searcher) costSpel(cmp dsp.PixelCmp, mx, my int) int {
	ref, stride := s.b.Ref.GetRef(s.pix[0][:], 16, s.b.X, s.b.Y, MakeMV(mx, my), s.bw, s.bh)
	return cmp(s.b.Src, dsp.EncStride, ref, stride) + s.costX.At(mx) + s.costY.At(my)
}
