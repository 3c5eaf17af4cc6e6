package avcore

import (
	"context"
	"errors"
	"image"

	"github.com/deepteams/avcore/internal/analysis"
	"github.com/deepteams/avcore/internal/frameio"
)

// Errors returned by Sequence.
var (
	ErrClosed  = errors.New("avcore: sequence closed")
	ErrSize    = errors.New("avcore: picture size changed within the sequence")
	ErrMaxRefs = errors.New("avcore: refs out of [1, 16]")
)

type (
	// Options configures the analyzer.
	Options = analysis.Options
	// Result is the analysis of one picture.
	Result = analysis.Result
	// MB is the decision for one macroblock.
	MB = analysis.MB
	// Picture is an 8-bit 4:2:0 picture.
	Picture = frameio.Picture
)

// DefaultOptions returns the analyzer defaults.
func DefaultOptions() Options { return analysis.DefaultOptions() }

// FromImage converts img to a macroblock-aligned Picture, padding the
// edges.
func FromImage(img image.Image) *Picture {
	return frameio.AlignImage(img, frameio.AlignPad)
}

// AnalyzePair analyzes cur against a single past picture ref.
func AnalyzePair(ctx context.Context, cur, ref *Picture, opts Options) (*Result, error) {
	a, err := analysis.New(opts)
	if err != nil {
		return nil, err
	}
	r := analysis.NewReference(ref)
	defer r.Release()
	return a.Analyze(ctx, cur, []*analysis.Reference{r}, nil)
}

// SequenceOptions configures a Sequence.
type SequenceOptions struct {
	Analysis   Options
	Refs       int  // past pictures kept as references
	ClosedLoop bool // predict from reconstructions instead of sources
}

// Sequence analyzes pictures in display order, each against the pictures
// before it.
type Sequence struct {
	opts   SequenceOptions
	a      *analysis.Analyzer
	refs   []*analysis.Reference // nearest first
	w, h   int
	n      int
	closed bool
}

// NewSequence returns a Sequence for opts.
func NewSequence(opts SequenceOptions) (*Sequence, error) {
	if opts.Refs == 0 {
		opts.Refs = 1
	}
	if opts.Refs < 1 || opts.Refs > 16 {
		return nil, ErrMaxRefs
	}
	a, err := analysis.New(opts.Analysis)
	if err != nil {
		return nil, err
	}
	return &Sequence{opts: opts, a: a}, nil
}

// Push analyzes p against the references held so far and then makes it
// the nearest reference. The first picture has nothing to predict from;
// Push returns a nil Result for it.
func (s *Sequence) Push(ctx context.Context, p *Picture) (*Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.n > 0 && (p.Width != s.w || p.Height != s.h) {
		return nil, ErrSize
	}
	s.w, s.h = p.Width, p.Height
	s.n++

	var res *Result
	next := p
	if len(s.refs) > 0 {
		var err error
		res, err = s.a.Analyze(ctx, p, s.refs, nil)
		if err != nil {
			return nil, err
		}
		if s.opts.ClosedLoop {
			next = res.Recon
		}
	}
	s.push(analysis.NewReference(next))
	return res, nil
}

func (s *Sequence) push(r *analysis.Reference) {
	if len(s.refs) == s.opts.Refs {
		s.refs[len(s.refs)-1].Release()
		s.refs = s.refs[:len(s.refs)-1]
	}
	s.refs = append(s.refs, nil)
	copy(s.refs[1:], s.refs)
	s.refs[0] = r
}

// Pictures returns the number of pictures pushed.
func (s *Sequence) Pictures() int { return s.n }

// Close releases the references.
func (s *Sequence) Close() error {
	if s.closed {
		return nil
	}
	for _, r := range s.refs {
		r.Release()
	}
	s.refs = nil
	s.closed = true
	return nil
}
