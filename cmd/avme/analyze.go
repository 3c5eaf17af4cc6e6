package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/deepteams/avcore"
	"github.com/deepteams/avcore/internal/analysis"
	"github.com/deepteams/avcore/internal/config"
	"github.com/deepteams/avcore/internal/frameio"
)

func analyzeCommand() *cli.Command {
	flags := append(analysisFlags(),
		&cli.IntFlag{Name: "refs", Aliases: []string{"r"}, Usage: "past pictures searched per picture"},
		&cli.BoolFlag{Name: "closed-loop", Usage: "predict from reconstructions, one picture at a time"},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "pictures analyzed in parallel in open loop"},
		&cli.StringFlag{Name: "recon", Usage: "write the reconstruction as Y4M to `FILE`"},
		&cli.StringFlag{Name: "stream", Usage: "write the coded macroblock rows to `FILE`"},
	)
	return &cli.Command{
		Name:      "analyze",
		Usage:     "analyze a Y4M sequence or an image against a reference",
		ArgsUsage: "<input.y4m> | <cur> <ref>",
		Flags:     flags,
		Action:    runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return errors.New("analyze: want <input.y4m> or <cur> <ref>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.String("stream") != "" {
		cfg.Bitstream = true
	}
	log := newLogger(c, cfg)

	var (
		pics []*frameio.Picture
		hdr  frameio.Y4MHeader
	)
	if c.NArg() == 1 {
		if pics, hdr, err = readY4M(c.Args().First()); err != nil {
			return err
		}
		if (hdr.Interlace == 't' || hdr.Interlace == 'b') && !c.IsSet("field") {
			cfg.Field = true
		}
	} else {
		cur, ref, err := loadImagePair(c.Args().Get(0), c.Args().Get(1), cfg)
		if err != nil {
			return err
		}
		pics = []*frameio.Picture{ref, cur}
		hdr = frameio.Y4MHeader{Width: cur.Width, Height: cur.Height}
	}
	if len(pics) < 2 {
		return fmt.Errorf("analyze: %d pictures, need at least 2", len(pics))
	}
	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}

	log.Info("Analyzing %d pictures of %dx%d", len(pics), pics[0].Width, pics[0].Height)
	var results []*analysis.Result
	if cfg.ClosedLoop {
		results, err = analyzeClosedLoop(c.Context, pics, opts, cfg.Refs)
	} else {
		results, err = analyzeOpenLoop(c.Context, pics, opts, cfg)
	}
	if err != nil {
		return err
	}

	report(c.App.Writer, results)
	if path := c.String("recon"); path != "" {
		if err := writeRecon(path, hdr, pics[0], results); err != nil {
			return err
		}
		log.Info("Output saved to %s", path)
	}
	if path := c.String("stream"); path != "" {
		if err := writeStream(path, results); err != nil {
			return err
		}
		log.Info("Output saved to %s", path)
	}
	return nil
}

// readY4M reads every picture of a Y4M file, padded to whole macroblocks.
func readY4M(path string) ([]*frameio.Picture, frameio.Y4MHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, frameio.Y4MHeader{}, err
	}
	defer f.Close()
	r, err := frameio.NewY4MReader(f)
	if err != nil {
		return nil, frameio.Y4MHeader{}, fmt.Errorf("%s: %w", path, err)
	}
	var pics []*frameio.Picture
	for {
		p, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, r.Header(), fmt.Errorf("%s: %w", path, err)
		}
		pics = append(pics, p.PadTo16())
	}
	hdr := r.Header()
	if len(pics) > 0 {
		hdr.Width, hdr.Height = pics[0].Width, pics[0].Height
	}
	return pics, hdr, nil
}

// loadImagePair loads two images and aligns them to whole macroblocks.
func loadImagePair(curPath, refPath string, cfg config.Config) (cur, ref *frameio.Picture, err error) {
	mode, err := frameio.ParseAlignMode(cfg.Align)
	if err != nil {
		return nil, nil, err
	}
	var p [2]*frameio.Picture
	for i, path := range []string{curPath, refPath} {
		img, err := frameio.LoadImage(path)
		if err != nil {
			return nil, nil, err
		}
		p[i] = frameio.AlignImage(img, mode)
	}
	if p[0].Width != p[1].Width || p[0].Height != p[1].Height {
		return nil, nil, fmt.Errorf("analyze: %s is %dx%d but %s is %dx%d",
			filepath.Base(curPath), p[0].Width, p[0].Height, filepath.Base(refPath), p[1].Width, p[1].Height)
	}
	return p[0], p[1], nil
}

// analyzeClosedLoop analyzes the pictures in order, each predicted from
// the reconstructions before it.
func analyzeClosedLoop(ctx context.Context, pics []*frameio.Picture, opts analysis.Options, refs int) ([]*analysis.Result, error) {
	seq, err := avcore.NewSequence(avcore.SequenceOptions{Analysis: opts, Refs: refs, ClosedLoop: true})
	if err != nil {
		return nil, err
	}
	defer seq.Close()
	results := make([]*analysis.Result, len(pics))
	for i, p := range pics {
		if results[i], err = seq.Push(ctx, p); err != nil {
			return nil, fmt.Errorf("picture %d: %w", i, err)
		}
	}
	return results, nil
}

// analyzeOpenLoop analyzes up to cfg.Jobs pictures at a time against the
// source pictures before them.
func analyzeOpenLoop(ctx context.Context, pics []*frameio.Picture, opts analysis.Options, cfg config.Config) ([]*analysis.Result, error) {
	refs := make([]*analysis.Reference, len(pics)-1)
	defer func() {
		for _, r := range refs {
			if r != nil {
				r.Release()
			}
		}
	}()

	var interp errgroup.Group
	interp.SetLimit(cfg.Jobs)
	for i := range refs {
		interp.Go(func() error {
			refs[i] = analysis.NewReference(pics[i])
			return nil
		})
	}
	interp.Wait()

	results := make([]*analysis.Result, len(pics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i := 1; i < len(pics); i++ {
		g.Go(func() error {
			a, err := analysis.New(opts)
			if err != nil {
				return err
			}
			l0 := make([]*analysis.Reference, 0, cfg.Refs)
			for k := i - 1; k >= 0 && len(l0) < cfg.Refs; k-- {
				l0 = append(l0, refs[k])
			}
			res, err := a.Analyze(gctx, pics[i], l0, nil)
			if err != nil {
				return fmt.Errorf("picture %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report prints one line per analyzed picture and the sequence totals.
func report(w io.Writer, results []*analysis.Result) {
	fmt.Fprintf(w, "%5s %9s %7s %7s %6s %11s %5s %5s\n", "pic", "bits", "psnr", "pred", "ssim", "L0/L1/Bi", "split", "coded")
	var (
		bits int
		psnr float64
		n    int
	)
	for i, res := range results {
		if res == nil {
			continue
		}
		preds := fmt.Sprintf("%d/%d/%d", res.Preds[analysis.PredL0], res.Preds[analysis.PredL1], res.Preds[analysis.PredBi])
		fmt.Fprintf(w, "%5d %9d %7.2f %7.2f %6.4f %11s %5d %5d\n",
			i, res.Bits, res.PSNR, res.PredPSNR, res.SSIM, preds, res.Split, res.Coded)
		bits += res.Bits
		psnr += res.PSNR
		n++
	}
	if n > 0 {
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 61))
		fmt.Fprintf(w, "%5d %9d %7.2f\n", n, bits, psnr/float64(n))
	}
}

// writeRecon writes the first source picture followed by every
// reconstruction.
func writeRecon(path string, hdr frameio.Y4MHeader, first *frameio.Picture, results []*analysis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := frameio.NewY4MWriter(f, hdr)
	if err != nil {
		return err
	}
	if err := w.Write(first); err != nil {
		return err
	}
	for _, res := range results[1:] {
		if err := w.Write(res.Recon); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// writeStream writes the coded rows of every picture back to back.
func writeStream(path string, results []*analysis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, res := range results[1:] {
		for _, row := range res.Rows {
			if _, err := f.Write(row); err != nil {
				return err
			}
		}
	}
	return f.Close()
}
