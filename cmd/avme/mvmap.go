package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/deepteams/avcore/internal/analysis"
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/render"
)

func mvmapCommand() *cli.Command {
	flags := append(analysisFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "output PNG `FILE`"},
		&cli.IntFlag{Name: "frame", Aliases: []string{"f"}, Value: 1, Usage: "picture of a Y4M input, predicted from the one before"},
		&cli.IntFlag{Name: "scale", Aliases: []string{"s"}, Value: 2, Usage: "output pixels per picture pixel"},
		&cli.Float64Flag{Name: "gain", Value: 1, Usage: "vector length multiplier"},
		&cli.BoolFlag{Name: "no-background", Usage: "draw on black instead of the reconstruction"},
		&cli.BoolFlag{Name: "no-grid", Usage: "do not outline macroblocks"},
	)
	return &cli.Command{
		Name:      "mvmap",
		Usage:     "render the motion vector field of a picture as PNG",
		ArgsUsage: "<input.y4m> | <cur> <ref>",
		Flags:     flags,
		Action:    runMVMap,
	}
}

func runMVMap(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return errors.New("mvmap: want <input.y4m> or <cur> <ref>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)

	var cur, ref *frameio.Picture
	if c.NArg() == 1 {
		pics, _, err := readY4M(c.Args().First())
		if err != nil {
			return err
		}
		n := c.Int("frame")
		if n < 1 || n >= len(pics) {
			return fmt.Errorf("mvmap: frame %d out of [1, %d]", n, len(pics)-1)
		}
		cur, ref = pics[n], pics[n-1]
	} else if cur, ref, err = loadImagePair(c.Args().Get(0), c.Args().Get(1), cfg); err != nil {
		return err
	}

	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}
	a, err := analysis.New(opts)
	if err != nil {
		return err
	}
	r := analysis.NewReference(ref)
	defer r.Release()
	res, err := a.Analyze(c.Context, cur, []*analysis.Reference{r}, nil)
	if err != nil {
		return err
	}

	img := render.MVField(res, render.Options{
		Scale:      c.Int("scale"),
		Background: !c.Bool("no-background"),
		Grid:       !c.Bool("no-grid"),
		Gain:       c.Float64("gain"),
	})
	path := c.String("output")
	if err := render.SavePNG(path, img); err != nil {
		return err
	}
	log.Info("Output saved to %s", path)
	return nil
}
