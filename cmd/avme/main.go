// Command avme runs the motion estimation and residual analysis of avcore
// from the command line.
//
// Usage:
//
//	avme analyze [options] <input.y4m>     Analyze a YUV4MPEG2 sequence
//	avme analyze [options] <cur> <ref>     Analyze an image against a reference image
//	avme mvmap [options] <cur> <ref>       Render the motion vector field as PNG
//	avme tables [options]                  Print scan, quantizer and cost tables
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/deepteams/avcore/internal/config"
	"github.com/deepteams/avcore/internal/logging"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.NewConsole(logging.LevelWarn).Warn("Interrupted, shutting down...")
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "avme: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "avme",
		Usage:   "motion estimation and residual analysis for H.264-style coding",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: "log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: "suppress all log output"},
		},
		Commands: []*cli.Command{
			analyzeCommand(),
			mvmapCommand(),
			tablesCommand(),
		},
	}
}

// analysisFlags are shared by the commands that run the analyzer. They
// override the configuration file.
func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
		&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Usage: "integer-pel search: dia, hex, umh, esa, tesa"},
		&cli.IntFlag{Name: "range", Usage: "search range in full pels"},
		&cli.IntFlag{Name: "subme", Usage: "sub-pel effort, 0-9"},
		&cli.IntFlag{Name: "qp", Aliases: []string{"q"}, Usage: "quantizer, 0-51"},
		&cli.BoolFlag{Name: "no-8x8", Usage: "skip 8x8 partitions"},
		&cli.BoolFlag{Name: "no-t8x8", Usage: "use only the 4x4 transform"},
		&cli.BoolFlag{Name: "no-decimate", Usage: "keep isolated small coefficients"},
		&cli.IntFlag{Name: "nr", Usage: "noise reduction strength"},
		&cli.BoolFlag{Name: "field", Usage: "use the field scan"},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "row workers per picture, 0 for one per CPU"},
		&cli.StringFlag{Name: "align", Usage: "macroblock alignment of images: pad or scale"},
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// set on the command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("method") {
		cfg.Method = c.String("method")
	}
	if c.IsSet("range") {
		cfg.Range = c.Int("range")
	}
	if c.IsSet("subme") {
		cfg.Subme = c.Int("subme")
	}
	if c.IsSet("qp") {
		cfg.QP = c.Int("qp")
	}
	if c.Bool("no-8x8") {
		cfg.Partitions8x8 = false
	}
	if c.Bool("no-t8x8") {
		cfg.Transform8x8 = false
	}
	if c.Bool("no-decimate") {
		cfg.Decimate = false
	}
	if c.IsSet("nr") {
		cfg.NoiseReduction = c.Int("nr")
	}
	if c.Bool("field") {
		cfg.Field = true
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("align") {
		cfg.Align = c.String("align")
	}
	if c.IsSet("refs") {
		cfg.Refs = c.Int("refs")
	}
	if c.Bool("closed-loop") {
		cfg.ClosedLoop = true
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	return cfg, cfg.Validate()
}

func newLogger(c *cli.Context, cfg config.Config) logging.Logger {
	if c.Bool("quiet") {
		return logging.NewNoop()
	}
	level := logging.ParseLogLevel(cfg.LogLevel)
	if c.App.ErrWriter == os.Stderr {
		return logging.NewConsole(level)
	}
	return logging.NewWriter(level, c.App.ErrWriter)
}
