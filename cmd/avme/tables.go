package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/deepteams/avcore/internal/cost"
	"github.com/deepteams/avcore/internal/dsp"
	"github.com/deepteams/avcore/internal/quant"
	"github.com/deepteams/avcore/internal/residual"
	"github.com/deepteams/avcore/internal/scan"
)

func tablesCommand() *cli.Command {
	return &cli.Command{
		Name:  "tables",
		Usage: "print the scan, quantizer and cost tables",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "qp", Aliases: []string{"q"}, Value: 26, Usage: "quantizer, 0-51"},
			&cli.BoolFlag{Name: "field", Usage: "print the field scans"},
			&cli.IntFlag{Name: "mvd", Value: 16, Usage: "largest vector difference, in quarter pels, of the cost table"},
		},
		Action: runTables,
	}
}

func runTables(c *cli.Context) error {
	qp := c.Int("qp")
	if qp < 0 || qp > quant.MaxQP {
		return fmt.Errorf("tables: qp %d out of [0, %d]", qp, quant.MaxQP)
	}
	order := scan.Frame
	if c.Bool("field") {
		order = scan.Field
	}
	w := c.App.Writer

	fmt.Fprintf(w, "kernels: %s\n\n", dsp.Active())
	fmt.Fprintf(w, "%s scan 4x4:\n", order)
	printGrid(w, scan.Table4x4(order)[:], 16)
	fmt.Fprintf(w, "\n%s scan 8x8:\n", order)
	printGrid(w, scan.Table8x8(order)[:], 8)

	t := quant.Flat()
	fmt.Fprintf(w, "\nqp %d, chroma qp %d\n", qp, residual.ChromaQP(qp))
	fmt.Fprintf(w, "\ninter luma 4x4 quant / dequant:\n")
	printGrid(w, t.MF4(quant.List4PY, qp)[:], 4)
	printGrid(w, t.DequantMF4(quant.List4PY, qp)[:], 4)
	fmt.Fprintf(w, "\ninter luma 8x8 quant / dequant:\n")
	printGrid(w, t.MF8(true, qp)[:], 8)
	printGrid(w, t.DequantMF8(true, qp)[:], 8)

	fmt.Fprintf(w, "\nlambda %d, lambda2 %.2f\n", cost.Lambda(qp), float64(cost.Lambda2(qp))/(1<<cost.Lambda2Bits))
	mvc := cost.NewMVTable(cost.Lambda(qp), cost.DefaultRange)
	fmt.Fprintf(w, "\nvector difference cost:\n")
	for d := 0; d <= c.Int("mvd"); d++ {
		fmt.Fprintf(w, "%4d %6d\n", d, mvc.Cost(d))
	}
	return nil
}

// printGrid prints v as rows of n values.
func printGrid[T uint8 | int32](w io.Writer, v []T, n int) {
	for i, x := range v {
		fmt.Fprintf(w, "%6d", x)
		if i%n == n-1 {
			fmt.Fprintln(w)
		}
	}
}
